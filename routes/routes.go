package routes

import (
	"Gin_postgres_redis_mr_tool/app"
	"Gin_postgres_redis_mr_tool/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	personnelCtl := controllers.NewPersonnelController(s)
	materialCtl := controllers.NewMaterialController(s)
	reqCtl := controllers.NewRequisitionController(s)
	dashCtl := controllers.NewDashboardController(s)

	actorMW := app.ActorRequired()

	// ------------------------------
	// 人员
	// ------------------------------
	personnel := r.Group("/api/personnel")
	{
		personnel.GET("", personnelCtl.List) // ?q=&page=&size=
		personnel.GET("/count", personnelCtl.Count)
		personnel.GET("/:id", personnelCtl.Get)
		personnel.POST("", personnelCtl.Create)
		personnel.PUT("/:id", personnelCtl.Update)
		personnel.DELETE("/:id", personnelCtl.Delete)
	}

	// ------------------------------
	// 物料与类别
	// ------------------------------
	materials := r.Group("/api/materials")
	{
		materials.GET("", materialCtl.List)
		materials.GET("/lowStock", materialCtl.LowStock)
		materials.GET("/distribution", materialCtl.Distribution)
		materials.GET("/:id", materialCtl.Get)
		materials.POST("", materialCtl.Create)
		materials.PUT("/:id", materialCtl.Update)
		materials.DELETE("/:id", materialCtl.Delete)
	}
	types := r.Group("/api/material-types")
	{
		types.GET("", materialCtl.ListTypes)
		types.POST("", materialCtl.CreateType)
	}

	// ------------------------------
	// 领料单（MR form）
	// ------------------------------
	reqs := r.Group("/api/requisitions")
	{
		reqs.GET("", reqCtl.List) // ?status=&page=&size=
		reqs.GET("/statusCount/:status", reqCtl.StatusCount)
		reqs.GET("/volume", dashCtl.Volume) // ?months=0,-1,...
		reqs.GET("/recentActivities", dashCtl.RecentActivities)
		reqs.GET("/:id", reqCtl.Get)

		// 写操作需要已解析的操作者身份
		reqs.POST("", actorMW, reqCtl.Create)
		reqs.PUT("/:id", actorMW, reqCtl.Update)
		reqs.PUT("/:id/status", actorMW, reqCtl.Transition)
		reqs.DELETE("/:id", actorMW, reqCtl.Delete)
	}
}
