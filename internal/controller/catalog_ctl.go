package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shoplytics_v1_202601/internal/api/dto"
	"shoplytics_v1_202601/internal/middleware"
	"shoplytics_v1_202601/internal/service"
)

// CatalogController 同步落库数据的只读查询接口
type CatalogController struct {
	catalogSvc *service.CatalogService
}

func NewCatalogController(catalogSvc *service.CatalogService) *CatalogController {
	return &CatalogController{catalogSvc: catalogSvc}
}

// ListCustomers 店铺客户列表
func (c *CatalogController) ListCustomers(ctx *gin.Context) {
	storeID, ok := parseStoreID(ctx)
	if !ok {
		return
	}
	page, pageSize := parsePaging(ctx)

	userID := middleware.GetUserID(ctx)
	resp, err := c.catalogSvc.ListCustomers(ctx.Request.Context(), userID, storeID, page, pageSize)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// ListProducts 店铺商品列表
func (c *CatalogController) ListProducts(ctx *gin.Context) {
	storeID, ok := parseStoreID(ctx)
	if !ok {
		return
	}
	page, pageSize := parsePaging(ctx)

	userID := middleware.GetUserID(ctx)
	resp, err := c.catalogSvc.ListProducts(ctx.Request.Context(), userID, storeID, page, pageSize)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// ListOrders 店铺订单列表，支持按下单日期过滤
func (c *CatalogController) ListOrders(ctx *gin.Context) {
	storeID, ok := parseStoreID(ctx)
	if !ok {
		return
	}

	var req dto.OrderListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	userID := middleware.GetUserID(ctx)
	resp, err := c.catalogSvc.ListOrders(ctx.Request.Context(), userID, storeID, &req)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetOrder 订单详情（含订单项）
func (c *CatalogController) GetOrder(ctx *gin.Context) {
	storeID, ok := parseStoreID(ctx)
	if !ok {
		return
	}
	orderID, err := strconv.ParseInt(ctx.Param("order_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的订单ID"})
		return
	}

	userID := middleware.GetUserID(ctx)
	resp, err := c.catalogSvc.GetOrder(ctx.Request.Context(), userID, storeID, orderID)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": resp})
}

// parsePaging 解析分页参数
func parsePaging(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	return page, pageSize
}
