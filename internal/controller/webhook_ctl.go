package controller

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"shoplytics_v1_202601/internal/service"
)

// WebhookController Shopify webhook 接收接口
// Shopify 只认 HTTP 状态码，响应体为纯文本
type WebhookController struct {
	webhookSvc *service.WebhookService
}

func NewWebhookController(webhookSvc *service.WebhookService) *WebhookController {
	return &WebhookController{webhookSvc: webhookSvc}
}

// HandleShopify 接收 Shopify webhook
// 主题与店铺域名取自请求头，域名支持 ?shop= 查询参数兜底
func (c *WebhookController) HandleShopify(ctx *gin.Context) {
	topic := ctx.GetHeader("X-Shopify-Topic")
	shop := ctx.GetHeader("X-Shopify-Shop-Domain")
	if shop == "" {
		shop = ctx.Query("shop")
	}
	if shop == "" {
		ctx.String(http.StatusBadRequest, "Missing shop domain")
		return
	}

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.String(http.StatusBadRequest, "Invalid body")
		return
	}

	hmacHeader := ctx.GetHeader("X-Shopify-Hmac-Sha256")

	result, err := c.webhookSvc.Process(ctx.Request.Context(), topic, shop, hmacHeader, body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			ctx.String(http.StatusNotFound, "Store not found")
		case errors.Is(err, service.ErrBadSignature):
			ctx.String(http.StatusUnauthorized, "Invalid signature")
		case errors.Is(err, service.ErrInvalidPayload):
			ctx.String(http.StatusBadRequest, "Invalid payload")
		default:
			log.Printf("[WebhookController] 处理失败 topic=%s shop=%s: %v", topic, shop, err)
			ctx.String(http.StatusInternalServerError, "Internal error")
		}
		return
	}

	ctx.String(http.StatusOK, result)
}
