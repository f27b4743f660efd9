package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"Gin_postgres_redis_mr_tool/app"
	"Gin_postgres_redis_mr_tool/models"
	"Gin_postgres_redis_mr_tool/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PersonnelController struct{ *Srv }

func NewPersonnelController(s *Srv) *PersonnelController { return &PersonnelController{Srv: s} }

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// GET /api/personnel?q=&page=&size=
func (pc *PersonnelController) List(c *gin.Context) {
	q := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := pc.Repo.ListPersonnel(c.Request.Context(), q, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "personnel": res.Personnel})
}

// GET /api/personnel/count
func (pc *PersonnelController) Count(c *gin.Context) {
	n, err := pc.Repo.CountPersonnel(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"count": n})
}

// GET /api/personnel/:id
func (pc *PersonnelController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := pc.Repo.GetPersonnel(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "personnel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/personnel
func (pc *PersonnelController) Create(c *gin.Context) {
	var in struct {
		Fullname string `json:"fullname" binding:"required"`
		Position string `json:"position" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	p := &models.Personnel{Fullname: in.Fullname, Position: in.Position}
	if err := pc.Repo.CreatePersonnel(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// PUT /api/personnel/:id
func (pc *PersonnelController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in struct {
		Fullname string `json:"fullname" binding:"required"`
		Position string `json:"position" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	p, err := pc.Repo.GetPersonnel(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "personnel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	p.Fullname = in.Fullname
	p.Position = in.Position
	if err := pc.Repo.UpdatePersonnel(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// DELETE /api/personnel/:id
// 被领料单引用（owner/creator）的人员不允许删，保历史可追溯
func (pc *PersonnelController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := pc.Repo.GetPersonnel(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "personnel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	n, err := pc.Repo.CountRequisitionsForPersonnel(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if n > 0 {
		writeErr(c, service.ErrPersonnelReferenced)
		return
	}
	if err := pc.Repo.DeletePersonnel(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
