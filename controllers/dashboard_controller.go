// controllers/dashboard_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"Gin_postgres_redis_mr_tool/app"
	"Gin_postgres_redis_mr_tool/cache"
	"Gin_postgres_redis_mr_tool/service"

	"github.com/gin-gonic/gin"
)

type DashboardController struct{ *Srv }

func NewDashboardController(s *Srv) *DashboardController { return &DashboardController{Srv: s} }

// 默认看最近 6 个月：0 当月，-1 上月 …
func defaultOffsets() []int {
	offs := make([]int, 6)
	for i := range offs {
		offs[i] = -i
	}
	return offs
}

func parseOffsets(raw string) []int {
	if raw == "" {
		return defaultOffsets()
	}
	var offs []int
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n > 0 {
			continue
		}
		offs = append(offs, n)
	}
	if len(offs) == 0 {
		return defaultOffsets()
	}
	return offs
}

// GET /api/requisitions/volume?months=0,-1,-2
func (dc *DashboardController) Volume(c *gin.Context) {
	ctx := c.Request.Context()
	offs := parseOffsets(c.Query("months"))

	// 缓存只命中默认窗口，自定义偏移直接现算
	useCache := c.Query("months") == ""
	if useCache {
		var cached []service.VolumePoint
		if hit, err := dc.Cache.GetJSON(ctx, cache.KeyVolume, &cached); err == nil && hit {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	forms, err := dc.Repo.ListAllRequisitions(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	points := service.VolumeByMonth(forms, offs, time.Now())
	if useCache {
		_ = dc.Cache.SetJSON(ctx, cache.KeyVolume, points)
	}
	c.JSON(http.StatusOK, points)
}

// 缓存只存默认窗口；显式给了 limit（哪怕正好等于默认值）就直接现算
func recentLimit(raw string) (int, bool) {
	if raw == "" {
		return 5, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 5, false
	}
	return n, false
}

// GET /api/requisitions/recentActivities?limit=
func (dc *DashboardController) RecentActivities(c *gin.Context) {
	ctx := c.Request.Context()
	limit, useCache := recentLimit(c.Query("limit"))
	if useCache {
		var cached []service.Activity
		if hit, err := dc.Cache.GetJSON(ctx, cache.KeyRecent, &cached); err == nil && hit {
			c.JSON(http.StatusOK, app.H{"recentActivities": cached})
			return
		}
	}

	forms, err := dc.Repo.ListAllRequisitions(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	acts := service.RecentActivity(forms, limit)
	if useCache {
		_ = dc.Cache.SetJSON(ctx, cache.KeyRecent, acts)
	}
	c.JSON(http.StatusOK, app.H{"recentActivities": acts})
}
