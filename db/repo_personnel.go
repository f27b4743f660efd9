// db/repo_personnel.go
package db

import (
	"context"
	"strings"

	"Gin_postgres_redis_mr_tool/models"
)

func (r *Repo) CreatePersonnel(ctx context.Context, p *models.Personnel) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *Repo) GetPersonnel(ctx context.Context, id uint) (*models.Personnel, error) {
	var p models.Personnel
	if err := r.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// 列表（分页 + 关键词，关键词匹配姓名/岗位）
type ListPersonnelResult struct {
	Personnel []models.Personnel `json:"personnel"`
	Total     int64              `json:"total"`
}

func (r *Repo) ListPersonnel(ctx context.Context, q string, page, size int) (ListPersonnelResult, error) {
	page, size = clampPage(page, size)

	tx := r.DB.WithContext(ctx).Model(&models.Personnel{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(fullname) LIKE ? OR LOWER(position) LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListPersonnelResult{}, err
	}

	var rows []models.Personnel
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error; err != nil {
		return ListPersonnelResult{}, err
	}
	return ListPersonnelResult{Personnel: rows, Total: total}, nil
}

func (r *Repo) CountPersonnel(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Personnel{}).Count(&n).Error
	return n, err
}

func (r *Repo) UpdatePersonnel(ctx context.Context, p *models.Personnel) error {
	return r.DB.WithContext(ctx).Model(p).
		Select("fullname", "position").
		Updates(map[string]interface{}{
			"fullname": p.Fullname,
			"position": p.Position,
		}).Error
}

// CountRequisitionsForPersonnel 该人员被多少领料单引用（owner 或 creator）。
// 被引用的人员不允许删除，保持历史单据可追溯。
func (r *Repo) CountRequisitionsForPersonnel(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Requisition{}).
		Where("owner_id = ? OR creator_id = ?", id, id).
		Count(&n).Error
	return n, err
}

func (r *Repo) DeletePersonnel(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Personnel{}, id).Error
}
