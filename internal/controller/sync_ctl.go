package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"shoplytics_v1_202601/internal/api/dto"
	"shoplytics_v1_202601/internal/middleware"
	"shoplytics_v1_202601/internal/model"
	"shoplytics_v1_202601/internal/service"
)

// SyncController 同步管理接口
type SyncController struct {
	storeSvc *service.StoreService
	syncSvc  *service.SyncService
}

func NewSyncController(storeSvc *service.StoreService, syncSvc *service.SyncService) *SyncController {
	return &SyncController{storeSvc: storeSvc, syncSvc: syncSvc}
}

// FullSync 触发全量同步（客户/商品/订单）
func (c *SyncController) FullSync(ctx *gin.Context) {
	storeID, ok := parseStoreID(ctx)
	if !ok {
		return
	}

	userID := middleware.GetUserID(ctx)
	store, err := c.storeSvc.AuthorizeStore(ctx.Request.Context(), userID, storeID)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	startedAt := time.Now()
	counts, err := c.syncSvc.FullSync(ctx.Request.Context(), store)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": &dto.FullSyncResponse{
		StoreID:   store.ID,
		Results:   counts,
		StartedAt: startedAt,
	}})
}

// SyncCustomers 仅同步客户
func (c *SyncController) SyncCustomers(ctx *gin.Context) {
	c.runSingleSync(ctx, model.SyncTypeCustomers)
}

// SyncProducts 仅同步商品
func (c *SyncController) SyncProducts(ctx *gin.Context) {
	c.runSingleSync(ctx, model.SyncTypeProducts)
}

// SyncOrders 仅同步订单
func (c *SyncController) SyncOrders(ctx *gin.Context) {
	c.runSingleSync(ctx, model.SyncTypeOrders)
}

func (c *SyncController) runSingleSync(ctx *gin.Context, syncType string) {
	storeID, ok := parseStoreID(ctx)
	if !ok {
		return
	}

	userID := middleware.GetUserID(ctx)
	store, err := c.storeSvc.AuthorizeStore(ctx.Request.Context(), userID, storeID)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	var processed int
	switch syncType {
	case model.SyncTypeCustomers:
		processed, err = c.syncSvc.SyncCustomers(ctx.Request.Context(), store)
	case model.SyncTypeProducts:
		processed, err = c.syncSvc.SyncProducts(ctx.Request.Context(), store)
	case model.SyncTypeOrders:
		processed, err = c.syncSvc.SyncOrders(ctx.Request.Context(), store)
	}
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": &dto.SyncResult{
		SyncType:         syncType,
		RecordsProcessed: processed,
	}})
}

// ListSyncLogs 同步日志
func (c *SyncController) ListSyncLogs(ctx *gin.Context) {
	storeID, ok := parseStoreID(ctx)
	if !ok {
		return
	}

	userID := middleware.GetUserID(ctx)
	if _, err := c.storeSvc.AuthorizeStore(ctx.Request.Context(), userID, storeID); err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	logs, err := c.syncSvc.ListSyncLogs(ctx.Request.Context(), storeID, limit)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": logs})
}
