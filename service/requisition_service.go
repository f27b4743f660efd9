// service/requisition_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"Gin_postgres_redis_mr_tool/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store 生命周期管理器对实体网关的最小依赖，由 db.Repo 实现。
// 找不到记录时约定返回 gorm.ErrRecordNotFound。
type Store interface {
	GetPersonnel(ctx context.Context, id uint) (*models.Personnel, error)
	MaterialsByIDs(ctx context.Context, ids []uint) (map[uint]models.Material, error)

	CreateRequisition(ctx context.Context, form *models.Requisition) error
	GetRequisition(ctx context.Context, id uint) (*models.Requisition, error)
	ReplaceRequisition(ctx context.Context, form *models.Requisition, items []models.RequisitionItem) error
	UpdateRequisitionStatus(ctx context.Context, id uint, next models.Status) error
	DeleteRequisition(ctx context.Context, id uint) error
	RefNoExists(ctx context.Context, refNo string) (bool, error)
}

const refNoAttempts = 10

type RequisitionService struct {
	store Store
	log   *zap.Logger
}

func NewRequisitionService(store Store, log *zap.Logger) *RequisitionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RequisitionService{store: store, log: log}
}

type CreateInput struct {
	Subject     string      `json:"subject" binding:"required"`
	Description string      `json:"description"`
	FormDate    string      `json:"form_date" binding:"required"`
	OwnerID     uint        `json:"owner_id" binding:"required"`
	Items       []ItemInput `json:"items"`
}

// 客户端传的 form_date 是 "2006-01-02" 日期串，也兼容完整 RFC3339
func parseFormDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%q: %w", raw, ErrInvalidDate)
}

// Create 创建领料单：校验 → 生成 ref_no → 表单与行项一个事务落库。
// creatorID 由调用方显式传入（上游会话已解析），核心不持有全局会话态。
func (s *RequisitionService) Create(ctx context.Context, creatorID uint, in CreateInput) (*models.Requisition, error) {
	if strings.TrimSpace(in.Subject) == "" {
		return nil, ErrSubjectRequired
	}
	formDate, err := parseFormDate(in.FormDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetPersonnel(ctx, in.OwnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("owner %d: %w", in.OwnerID, ErrInvalidReference)
		}
		return nil, err
	}

	items, err := s.validate(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	refNo, err := s.generateRefNo(ctx)
	if err != nil {
		return nil, err
	}

	form := &models.Requisition{
		RefNo:       refNo,
		Subject:     strings.TrimSpace(in.Subject),
		Description: in.Description,
		FormDate:    formDate,
		Status:      models.StatusPending,
		OwnerID:     in.OwnerID,
		CreatorID:   creatorID,
		Items:       items,
	}
	// 网关内部用事务写入，行项失败整单回滚，不会留下半提交状态
	if err := s.store.CreateRequisition(ctx, form); err != nil {
		return nil, err
	}
	s.log.Info("requisition created",
		zap.String("ref_no", form.RefNo),
		zap.Uint("id", form.ID),
		zap.Int("items", len(form.Items)),
	)
	return form, nil
}

type UpdateInput struct {
	Subject     *string      `json:"subject"`
	Description *string      `json:"description"`
	FormDate    *string      `json:"form_date"`
	OwnerID     *uint        `json:"owner_id"`
	Items       *[]ItemInput `json:"items"` // nil = 行项不动
}

// Update 仅 Pending 状态可编辑；行项有变化时重新走一遍校验
func (s *RequisitionService) Update(ctx context.Context, id uint, in UpdateInput) (*models.Requisition, error) {
	form, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if form.Status.Terminal() {
		return nil, fmt.Errorf("requisition %s is %s: %w", form.RefNo, form.Status.Label(), ErrImmutableState)
	}

	if in.Subject != nil {
		if strings.TrimSpace(*in.Subject) == "" {
			return nil, ErrSubjectRequired
		}
		form.Subject = strings.TrimSpace(*in.Subject)
	}
	if in.Description != nil {
		form.Description = *in.Description
	}
	if in.FormDate != nil {
		d, err := parseFormDate(*in.FormDate)
		if err != nil {
			return nil, err
		}
		form.FormDate = d
	}
	if in.OwnerID != nil {
		if _, err := s.store.GetPersonnel(ctx, *in.OwnerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("owner %d: %w", *in.OwnerID, ErrInvalidReference)
			}
			return nil, err
		}
		form.OwnerID = *in.OwnerID
	}

	var items []models.RequisitionItem
	if in.Items != nil {
		items, err = s.validate(ctx, *in.Items)
		if err != nil {
			return nil, err
		}
	}

	if err := s.store.ReplaceRequisition(ctx, form, items); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// Transition 执行状态机迁移。终态重复调用同样报 ErrInvalidTransition。
func (s *RequisitionService) Transition(ctx context.Context, id uint, next models.Status) (*models.Requisition, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("status %d: %w", next, ErrInvalidTransition)
	}
	form, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !form.Status.CanTransition(next) {
		return nil, fmt.Errorf("%s -> %s: %w", form.Status.Label(), next.Label(), ErrInvalidTransition)
	}
	if err := s.store.UpdateRequisitionStatus(ctx, id, next); err != nil {
		return nil, err
	}
	s.log.Info("requisition status changed",
		zap.String("ref_no", form.RefNo),
		zap.String("from", form.Status.Label()),
		zap.String("to", next.Label()),
	)
	return s.load(ctx, id)
}

// Delete 只允许删除 Pending 单，行项随表单一并删除
func (s *RequisitionService) Delete(ctx context.Context, id uint) error {
	form, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if form.Status.Terminal() {
		return fmt.Errorf("requisition %s is %s: %w", form.RefNo, form.Status.Label(), ErrImmutableState)
	}
	return s.store.DeleteRequisition(ctx, id)
}

func (s *RequisitionService) load(ctx context.Context, id uint) (*models.Requisition, error) {
	form, err := s.store.GetRequisition(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("requisition %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return form, nil
}

func (s *RequisitionService) validate(ctx context.Context, items []ItemInput) ([]models.RequisitionItem, error) {
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if it.MaterialID != nil {
			ids = append(ids, *it.MaterialID)
		}
	}
	mats, err := s.store.MaterialsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return ValidateItems(items, mats, true)
}

func (s *RequisitionService) generateRefNo(ctx context.Context) (string, error) {
	for i := 0; i < refNoAttempts; i++ {
		refNo := fmt.Sprintf("REQ-%05d", rand.IntN(90000)+10000)
		exists, err := s.store.RefNoExists(ctx, refNo)
		if err != nil {
			return "", err
		}
		if !exists {
			return refNo, nil
		}
	}
	return "", ErrRefNoExhausted
}
