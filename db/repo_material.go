// db/repo_material.go
package db

import (
	"context"
	"errors"
	"strings"

	"Gin_postgres_redis_mr_tool/models"

	"gorm.io/gorm"
)

func (r *Repo) CreateMaterial(ctx context.Context, m *models.Material) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *Repo) GetMaterial(ctx context.Context, id uint) (*models.Material, error) {
	var m models.Material
	if err := r.DB.WithContext(ctx).
		Preload("MaterialType").
		First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) ListMaterials(ctx context.Context) ([]models.Material, error) {
	var ms []models.Material
	err := r.DB.WithContext(ctx).
		Preload("MaterialType").
		Order("created_at DESC").
		Find(&ms).Error
	return ms, err
}

// MaterialsByIDs 按 id 批量取物料，供行项校验用。查不到的 id 不报错，
// 调用方对照返回的 map 自行判断引用是否悬空。
func (r *Repo) MaterialsByIDs(ctx context.Context, ids []uint) (map[uint]models.Material, error) {
	out := make(map[uint]models.Material, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var ms []models.Material
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, err
	}
	for _, m := range ms {
		out[m.ID] = m
	}
	return out, nil
}

func (r *Repo) UpdateMaterial(ctx context.Context, m *models.Material) error {
	return r.DB.WithContext(ctx).Model(m).
		Select("title", "unit", "quantity", "safety_stock", "material_type_id").
		Updates(map[string]interface{}{
			"title":            m.Title,
			"unit":             m.Unit,
			"quantity":         m.Quantity,
			"safety_stock":     m.SafetyStock,
			"material_type_id": m.MaterialTypeID,
		}).Error
}

func (r *Repo) DeleteMaterial(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Material{}, id).Error
}

// Material types

func (r *Repo) ListMaterialTypes(ctx context.Context) ([]models.MaterialType, error) {
	var ts []models.MaterialType
	err := r.DB.WithContext(ctx).Order("title ASC").Find(&ts).Error
	return ts, err
}

func (r *Repo) CreateMaterialType(ctx context.Context, t *models.MaterialType) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

// FindOrCreateMaterialTypeByTitle 录入物料时可顺手新建类别
func (r *Repo) FindOrCreateMaterialTypeByTitle(ctx context.Context, title string) (*models.MaterialType, error) {
	title = strings.TrimSpace(title)
	var t models.MaterialType
	err := r.DB.WithContext(ctx).Where("title = ?", title).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t = models.MaterialType{Title: title}
		if err := r.DB.WithContext(ctx).Create(&t).Error; err != nil {
			return nil, err
		}
		return &t, nil
	}
	return &t, err
}
