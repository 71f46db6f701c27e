package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shoplytics_v1_202601/internal/api/dto"
	"shoplytics_v1_202601/internal/middleware"
	"shoplytics_v1_202601/internal/service"
)

// StoreController 店铺管理接口
type StoreController struct {
	storeSvc *service.StoreService
}

func NewStoreController(storeSvc *service.StoreService) *StoreController {
	return &StoreController{storeSvc: storeSvc}
}

// CreateStore 创建店铺
func (c *StoreController) CreateStore(ctx *gin.Context) {
	var req dto.CreateStoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	userID := middleware.GetUserID(ctx)
	store, err := c.storeSvc.CreateStore(ctx.Request.Context(), userID, &req)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": store})
}

// ListStores 当前用户的店铺列表
func (c *StoreController) ListStores(ctx *gin.Context) {
	userID := middleware.GetUserID(ctx)

	resp, err := c.storeSvc.ListStores(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetStore 店铺详情
func (c *StoreController) GetStore(ctx *gin.Context) {
	storeID, ok := parseStoreID(ctx)
	if !ok {
		return
	}

	userID := middleware.GetUserID(ctx)
	store, err := c.storeSvc.GetStore(ctx.Request.Context(), userID, storeID)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": store})
}

// UpdateStore 更新店铺设置
func (c *StoreController) UpdateStore(ctx *gin.Context) {
	storeID, ok := parseStoreID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateStoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	userID := middleware.GetUserID(ctx)
	store, err := c.storeSvc.UpdateStore(ctx.Request.Context(), userID, storeID, &req)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": store})
}

// DeleteStore 删除店铺
func (c *StoreController) DeleteStore(ctx *gin.Context) {
	storeID, ok := parseStoreID(ctx)
	if !ok {
		return
	}

	userID := middleware.GetUserID(ctx)
	if err := c.storeSvc.DeleteStore(ctx.Request.Context(), userID, storeID); err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// parseStoreID 解析路径中的店铺 ID，失败时已写入 400 响应
func parseStoreID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的店铺ID"})
		return 0, false
	}
	return id, true
}
