// models/requisition.go
package models

import (
	"fmt"
	"time"
)

const MRFormTable = "mr_forms"
const MRFormMaterialTable = "mr_form_materials"

// Status 领料单审批状态。对外表示仍是 -1/0/1 小整数，核心内部只用这个封闭类型。
type Status int8

const (
	StatusRejected Status = -1
	StatusPending  Status = 0
	StatusApproved Status = 1
)

func (s Status) Valid() bool {
	return s == StatusRejected || s == StatusPending || s == StatusApproved
}

// Terminal: Approved/Rejected 之后不再允许任何迁移
func (s Status) Terminal() bool { return s != StatusPending }

// CanTransition 唯一合法迁移是 Pending → Approved/Rejected
func (s Status) CanTransition(next Status) bool {
	return s == StatusPending && (next == StatusApproved || next == StatusRejected)
}

func (s Status) Label() string {
	switch s {
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	default:
		return "Pending"
	}
}

// ParseStatus 接受外部表示："-1"/"0"/"1" 或 "rejected"/"pending"/"approved"
func ParseStatus(raw string) (Status, error) {
	switch raw {
	case "-1", "rejected":
		return StatusRejected, nil
	case "0", "pending":
		return StatusPending, nil
	case "1", "approved":
		return StatusApproved, nil
	}
	return StatusPending, fmt.Errorf("unknown status %q", raw)
}

// Requisition MR 领料单（mr_form）
type Requisition struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RefNo       string    `gorm:"size:32;uniqueIndex;not null" json:"ref_no"`
	Subject     string    `gorm:"size:255;not null" json:"subject"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	FormDate    time.Time `gorm:"index;not null" json:"form_date"`
	Status      Status    `gorm:"not null;default:0" json:"status"`
	OwnerID     uint      `gorm:"index;not null" json:"owner_id"`
	CreatorID   uint      `gorm:"index;not null" json:"creator_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner   *Personnel        `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Creator *Personnel        `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Items   []RequisitionItem `gorm:"foreignKey:MRFormID" json:"mr_form_materials"`
}

// RequisitionItem 领料单行项（mr_form_materials）
type RequisitionItem struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	MRFormID   uint `gorm:"index;not null" json:"mr_form_id"`
	MaterialID uint `gorm:"index;not null" json:"material_id"`
	Quantity   int  `gorm:"not null" json:"quantity"`

	Material *Material `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
}

func (Requisition) TableName() string     { return MRFormTable }
func (RequisitionItem) TableName() string { return MRFormMaterialTable }
