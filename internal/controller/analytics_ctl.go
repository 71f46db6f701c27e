package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shoplytics_v1_202601/internal/middleware"
	"shoplytics_v1_202601/internal/service"
)

// AnalyticsController 分析接口
type AnalyticsController struct {
	analyticsSvc *service.AnalyticsService
}

func NewAnalyticsController(analyticsSvc *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsSvc: analyticsSvc}
}

// Dashboard 仪表盘聚合指标
func (c *AnalyticsController) Dashboard(ctx *gin.Context) {
	storeID, ok := parseStoreID(ctx)
	if !ok {
		return
	}

	userID := middleware.GetUserID(ctx)
	resp, err := c.analyticsSvc.GetDashboardAnalytics(ctx.Request.Context(), userID, storeID)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": resp})
}

// RevenueTrends 收入趋势，period 取 7d / 30d / 90d / 1y
func (c *AnalyticsController) RevenueTrends(ctx *gin.Context) {
	storeID, ok := parseStoreID(ctx)
	if !ok {
		return
	}

	period := ctx.DefaultQuery("period", "30d")

	userID := middleware.GetUserID(ctx)
	resp, err := c.analyticsSvc.GetRevenueTrends(ctx.Request.Context(), userID, storeID, period)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": resp})
}
