// models/material.go
package models

import "time"

const MaterialTable = "materials"
const MaterialTypeTable = "material_types"

type MaterialType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;uniqueIndex;not null" json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Material 库存物料。Quantity 为当前在库数量，由外部出入库动作维护；
// SafetyStock 可选，设置后 quantity < safety_stock 记为安全库存告警。
type Material struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Title          string `gorm:"size:200;not null" json:"title"`
	Unit           string `gorm:"size:50;not null" json:"unit"`
	Quantity       int    `gorm:"not null;default:0" json:"quantity"`
	SafetyStock    *int   `json:"safety_stock,omitempty"`
	MaterialTypeID uint   `gorm:"index;not null" json:"material_type_id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	MaterialType *MaterialType `gorm:"foreignKey:MaterialTypeID" json:"material_type,omitempty"`
}

func (MaterialType) TableName() string { return MaterialTypeTable }
func (Material) TableName() string     { return MaterialTable }
