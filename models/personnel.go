package models

import "time"

const PersonnelTable = "personnel"

// Personnel 领料单的归属人（领用人），由管理端维护
type Personnel struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Fullname string `gorm:"size:255;not null" json:"fullname"`
	Position string `gorm:"size:255;not null" json:"position"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Personnel) TableName() string { return PersonnelTable }
