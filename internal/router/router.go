package router

import (
	"github.com/gin-gonic/gin"

	"shoplytics_v1_202601/internal/controller"
	"shoplytics_v1_202601/internal/middleware"
)

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	authCtl *controller.AuthController,
	storeCtl *controller.StoreController,
	syncCtl *controller.SyncController,
	analyticsCtl *controller.AnalyticsController,
	catalogCtl *controller.CatalogController,
	webhookCtl *controller.WebhookController) {

	// 1. Webhook 入口，Shopify 直连，不走 JWT
	r.POST("/webhooks/shopify", webhookCtl.HandleShopify)

	// 2. API 路由组
	api := r.Group("/api")
	{
		// auth 鉴权组
		auth := api.Group("/auth")
		{
			auth.POST("/register", authCtl.Register)
			auth.POST("/login", authCtl.Login)
			auth.POST("/refresh", authCtl.Refresh)

			authed := auth.Group("", middleware.JWTAuth())
			{
				authed.GET("/profile", authCtl.Profile)
				authed.POST("/change-password", authCtl.ChangePassword)
			}
		}

		// v1 业务组，全部需要登录
		v1 := api.Group("/v1", middleware.JWTAuth(), middleware.AuditContext())
		{
			// store 店铺管理
			stores := v1.Group("/stores")
			{
				stores.POST("", storeCtl.CreateStore)
				stores.GET("", storeCtl.ListStores)
				stores.GET("/:id", storeCtl.GetStore)
				stores.PUT("/:id", storeCtl.UpdateStore)
				stores.DELETE("/:id", storeCtl.DeleteStore)

				// sync 同步触发与日志
				stores.POST("/:id/sync",
					middleware.SyncRateLimit(middleware.SyncTypeFull, 0),
					syncCtl.FullSync)
				stores.POST("/:id/sync/customers",
					middleware.SyncRateLimit(middleware.SyncTypeCustomers, 0),
					syncCtl.SyncCustomers)
				stores.POST("/:id/sync/products",
					middleware.SyncRateLimit(middleware.SyncTypeProducts, 0),
					syncCtl.SyncProducts)
				stores.POST("/:id/sync/orders",
					middleware.SyncRateLimit(middleware.SyncTypeOrders, 0),
					syncCtl.SyncOrders)
				stores.GET("/:id/sync/logs", syncCtl.ListSyncLogs)

				// analytics 仪表盘
				stores.GET("/:id/analytics/dashboard", analyticsCtl.Dashboard)
				stores.GET("/:id/analytics/trends", analyticsCtl.RevenueTrends)

				// 落库数据只读查询
				stores.GET("/:id/customers", catalogCtl.ListCustomers)
				stores.GET("/:id/products", catalogCtl.ListProducts)
				stores.GET("/:id/orders", catalogCtl.ListOrders)
				stores.GET("/:id/orders/:order_id", catalogCtl.GetOrder)
			}
		}
	}
}
