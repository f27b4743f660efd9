// db/repo_requisition.go
package db

import (
	"context"

	"Gin_postgres_redis_mr_tool/models"

	"gorm.io/gorm"
)

func (r *Repo) preloadForm(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Owner").
		Preload("Creator").
		Preload("Items").
		Preload("Items.Material")
}

type ListRequisitionsQuery struct {
	Status *models.Status // nil = 全部
	Page   int
	Size   int
}

type PagedRequisitions struct {
	Total        int64                `json:"total"`
	Requisitions []models.Requisition `json:"requisitions"`
}

func (r *Repo) ListRequisitions(ctx context.Context, q ListRequisitionsQuery) (*PagedRequisitions, error) {
	q.Page, q.Size = clampPage(q.Page, q.Size)

	tx := r.DB.WithContext(ctx).Model(&models.Requisition{})
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var forms []models.Requisition
	if err := r.preloadForm(tx).
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&forms).Error; err != nil {
		return nil, err
	}
	return &PagedRequisitions{Total: total, Requisitions: forms}, nil
}

// ListAllRequisitions 聚合计算用，不分页，行项与人员一并取出
func (r *Repo) ListAllRequisitions(ctx context.Context) ([]models.Requisition, error) {
	var forms []models.Requisition
	err := r.preloadForm(r.DB.WithContext(ctx)).
		Order("created_at DESC").
		Find(&forms).Error
	return forms, err
}

func (r *Repo) GetRequisition(ctx context.Context, id uint) (*models.Requisition, error) {
	var form models.Requisition
	if err := r.preloadForm(r.DB.WithContext(ctx)).
		First(&form, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

// CreateRequisition 表单与行项一个事务写入，任一失败整单回滚，
// 不会出现表单已落库、行项落一半的状态。
func (r *Repo) CreateRequisition(ctx context.Context, form *models.Requisition) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := form.Items
		form.Items = nil
		if err := tx.Create(form).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].MRFormID = form.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		form.Items = items
		return nil
	})
}

// ReplaceRequisition 保存表单字段；items 非 nil 时整组替换行项
func (r *Repo) ReplaceRequisition(ctx context.Context, form *models.Requisition, items []models.RequisitionItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Requisition{}).
			Where("id = ?", form.ID).
			Updates(map[string]interface{}{
				"subject":     form.Subject,
				"description": form.Description,
				"form_date":   form.FormDate,
				"owner_id":    form.OwnerID,
			}).Error; err != nil {
			return err
		}
		if items == nil {
			return nil
		}
		if err := tx.Where("mr_form_id = ?", form.ID).
			Delete(&models.RequisitionItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].MRFormID = form.ID
			items[i].ID = 0
		}
		return tx.Create(&items).Error
	})
}

func (r *Repo) UpdateRequisitionStatus(ctx context.Context, id uint, next models.Status) error {
	// gorm 在 Update 时自动刷 updated_at
	return r.DB.WithContext(ctx).Model(&models.Requisition{}).
		Where("id = ?", id).
		Update("status", next).Error
}

// DeleteRequisition 显式级联：先删行项再删表单
func (r *Repo) DeleteRequisition(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mr_form_id = ?", id).
			Delete(&models.RequisitionItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Requisition{}, id).Error
	})
}

func (r *Repo) RefNoExists(ctx context.Context, refNo string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Requisition{}).
		Where("ref_no = ?", refNo).
		Count(&n).Error
	return n > 0, err
}

func (r *Repo) CountRequisitionsByStatus(ctx context.Context, status models.Status) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Requisition{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}
