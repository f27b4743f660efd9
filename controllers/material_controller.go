// controllers/material_controller.go
package controllers

import (
	"errors"
	"net/http"

	"Gin_postgres_redis_mr_tool/app"
	"Gin_postgres_redis_mr_tool/cache"
	"Gin_postgres_redis_mr_tool/models"
	"Gin_postgres_redis_mr_tool/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MaterialController struct{ *Srv }

func NewMaterialController(s *Srv) *MaterialController { return &MaterialController{Srv: s} }

type materialRow struct {
	models.Material
	StockStatus string `json:"stock_status"`
}

// GET /api/materials — 目录视图，每行带全局水位线口径的状态徽标
func (mc *MaterialController) List(c *gin.Context) {
	ms, err := mc.Repo.ListMaterials(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	rows := make([]materialRow, len(ms))
	for i, m := range ms {
		rows[i] = materialRow{Material: m, StockStatus: service.StockStatusOf(m.Quantity)}
	}
	c.JSON(http.StatusOK, app.H{"materials": rows})
}

// GET /api/materials/:id
func (mc *MaterialController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, err := mc.Repo.GetMaterial(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "material not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, m)
}

type materialInput struct {
	Title          string `json:"title" binding:"required"`
	Unit           string `json:"unit" binding:"required"`
	Quantity       int    `json:"quantity" binding:"min=0"`
	SafetyStock    *int   `json:"safety_stock"`
	MaterialTypeID *uint  `json:"material_type_id"`
	// 新类别可随物料一起建
	MaterialTypeTitle string `json:"material_type_title"`
}

func (mc *MaterialController) resolveType(c *gin.Context, in materialInput) (uint, bool) {
	if in.MaterialTypeID != nil {
		return *in.MaterialTypeID, true
	}
	if in.MaterialTypeTitle == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "material_type_id or material_type_title is required"})
		return 0, false
	}
	t, err := mc.Repo.FindOrCreateMaterialTypeByTitle(c.Request.Context(), in.MaterialTypeTitle)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return 0, false
	}
	return t.ID, true
}

// POST /api/materials
func (mc *MaterialController) Create(c *gin.Context) {
	var in materialInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	typeID, ok := mc.resolveType(c, in)
	if !ok {
		return
	}
	m := &models.Material{
		Title:          in.Title,
		Unit:           in.Unit,
		Quantity:       in.Quantity,
		SafetyStock:    in.SafetyStock,
		MaterialTypeID: typeID,
	}
	if err := mc.Repo.CreateMaterial(c.Request.Context(), m); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	_ = mc.Cache.Invalidate(c.Request.Context(), cache.KeyDistribution)
	c.JSON(http.StatusCreated, m)
}

// PUT /api/materials/:id
func (mc *MaterialController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in materialInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	m, err := mc.Repo.GetMaterial(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "material not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	typeID, ok := mc.resolveType(c, in)
	if !ok {
		return
	}
	m.Title = in.Title
	m.Unit = in.Unit
	m.Quantity = in.Quantity
	m.SafetyStock = in.SafetyStock
	m.MaterialTypeID = typeID
	if err := mc.Repo.UpdateMaterial(c.Request.Context(), m); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	_ = mc.Cache.Invalidate(c.Request.Context(), cache.KeyDistribution)
	c.JSON(http.StatusOK, m)
}

// DELETE /api/materials/:id
// 历史行项继续保留 material_id，摘要侧对解析失败有降级文案
func (mc *MaterialController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := mc.Repo.DeleteMaterial(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	_ = mc.Cache.Invalidate(c.Request.Context(), cache.KeyDistribution)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/materials/lowStock — 面板告警口径（逐物料 safety_stock）
func (mc *MaterialController) LowStock(c *gin.Context) {
	ms, err := mc.Repo.ListMaterials(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	low := service.LowStock(ms)
	c.JSON(http.StatusOK, app.H{"count": len(low), "materials": low})
}

// GET /api/materials/distribution — 环形图数据，短 TTL 缓存
func (mc *MaterialController) Distribution(c *gin.Context) {
	ctx := c.Request.Context()

	var cached []service.DistributionSlice
	if hit, err := mc.Cache.GetJSON(ctx, cache.KeyDistribution, &cached); err == nil && hit {
		c.JSON(http.StatusOK, cached)
		return
	}

	ms, err := mc.Repo.ListMaterials(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	dist := service.Distribution(ms)
	_ = mc.Cache.SetJSON(ctx, cache.KeyDistribution, dist)
	c.JSON(http.StatusOK, dist)
}

// GET /api/material-types
func (mc *MaterialController) ListTypes(c *gin.Context) {
	ts, err := mc.Repo.ListMaterialTypes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"material_types": ts})
}

// POST /api/material-types
func (mc *MaterialController) CreateType(c *gin.Context) {
	var in struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	t, err := mc.Repo.FindOrCreateMaterialTypeByTitle(c.Request.Context(), in.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, t)
}
