// controllers/srv.go
package controllers

import (
	"errors"
	"net/http"

	"Gin_postgres_redis_mr_tool/app"
	"Gin_postgres_redis_mr_tool/cache"
	"Gin_postgres_redis_mr_tool/db"
	"Gin_postgres_redis_mr_tool/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Srv struct {
	Repo  *db.Repo
	Reqs  *service.RequisitionService
	Cache *cache.Cache
	Log   *zap.Logger
}

func GetSrv(a *app.App) *Srv {
	repo := db.NewRepo(a.DB)
	return &Srv{
		Repo:  repo,
		Reqs:  service.NewRequisitionService(repo, a.Log),
		Cache: cache.New(a.RDB, a.Config.CacheTTL),
		Log:   a.Log,
	}
}

// --- helpers ---

// 错误分类在 service 层用哨兵错误表达，这里统一翻译成 HTTP 状态码
func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidReference),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyRequisition),
		errors.Is(err, service.ErrSubjectRequired),
		errors.Is(err, service.ErrInvalidDate):
		c.JSON(http.StatusUnprocessableEntity, app.H{"error": err.Error()})
	case errors.Is(err, service.ErrImmutableState),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrPersonnelReferenced):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	case errors.Is(err, service.ErrRefNoExhausted):
		// 编号池短暂打满，区别于网关故障，客户端可重试
		c.JSON(http.StatusServiceUnavailable, app.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}
