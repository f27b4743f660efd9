// controllers/requisition_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"Gin_postgres_redis_mr_tool/app"
	"Gin_postgres_redis_mr_tool/cache"
	"Gin_postgres_redis_mr_tool/db"
	"Gin_postgres_redis_mr_tool/models"
	"Gin_postgres_redis_mr_tool/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RequisitionController struct{ *Srv }

func NewRequisitionController(s *Srv) *RequisitionController {
	return &RequisitionController{Srv: s}
}

func (rc *RequisitionController) invalidate(c *gin.Context) {
	_ = rc.Cache.Invalidate(c.Request.Context(), cache.KeyVolume, cache.KeyRecent)
}

// GET /api/requisitions?status=&page=&size=
func (rc *RequisitionController) List(c *gin.Context) {
	q := db.ListRequisitionsQuery{}
	if raw := c.Query("status"); raw != "" {
		st, err := models.ParseStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
			return
		}
		q.Status = &st
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := rc.Repo.ListRequisitions(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/requisitions/:id
func (rc *RequisitionController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	form, err := rc.Repo.GetRequisition(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeErr(c, service.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, form)
}

// POST /api/requisitions
func (rc *RequisitionController) Create(c *gin.Context) {
	actor, ok := app.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	var in service.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	form, err := rc.Reqs.Create(c.Request.Context(), actor, in)
	if err != nil {
		writeErr(c, err)
		return
	}
	rc.invalidate(c)
	c.JSON(http.StatusCreated, form)
}

// PUT /api/requisitions/:id
func (rc *RequisitionController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in service.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	form, err := rc.Reqs.Update(c.Request.Context(), id, in)
	if err != nil {
		writeErr(c, err)
		return
	}
	rc.invalidate(c)
	c.JSON(http.StatusOK, form)
}

// PUT /api/requisitions/:id/status
func (rc *RequisitionController) Transition(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	next, err := models.ParseStatus(in.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	form, err := rc.Reqs.Transition(c.Request.Context(), id, next)
	if err != nil {
		writeErr(c, err)
		return
	}
	rc.invalidate(c)
	c.JSON(http.StatusOK, form)
}

// DELETE /api/requisitions/:id
func (rc *RequisitionController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := rc.Reqs.Delete(c.Request.Context(), id); err != nil {
		writeErr(c, err)
		return
	}
	rc.invalidate(c)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/requisitions/statusCount/:status
func (rc *RequisitionController) StatusCount(c *gin.Context) {
	st, err := models.ParseStatus(c.Param("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	n, err := rc.Repo.CountRequisitionsByStatus(c.Request.Context(), st)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"count": n})
}
