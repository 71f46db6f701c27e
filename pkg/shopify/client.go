package shopify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ==================== Admin API 客户端 ====================

// Client Shopify Admin API 客户端
// 认证方式：X-Shopify-Access-Token 请求头
type Client struct {
	http       *resty.Client
	apiVersion string
}

// NewClient 创建 Admin API 客户端
func NewClient(apiVersion string) *Client {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(0) // 同步层不做重试，首错即中止

	if apiVersion == "" {
		apiVersion = "2024-01"
	}

	return &Client{
		http:       client,
		apiVersion: apiVersion,
	}
}

func (c *Client) endpoint(domain, resource string) string {
	return fmt.Sprintf("https://%s/admin/api/%s/%s.json", domain, c.apiVersion, resource)
}

func (c *Client) get(ctx context.Context, creds Credentials, resource string, out interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Shopify-Access-Token", creds.AccessToken).
		SetQueryParam("limit", "250").
		SetResult(out).
		Get(c.endpoint(creds.Domain, resource))
	if err != nil {
		return fmt.Errorf("请求 Shopify API 失败: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("Shopify API 错误 [%d]: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// ==================== Source 实现 ====================

// FetchCustomers 拉取店铺客户
func (c *Client) FetchCustomers(ctx context.Context, creds Credentials) ([]Customer, error) {
	var wire struct {
		Customers []wireCustomer `json:"customers"`
	}
	if err := c.get(ctx, creds, "customers", &wire); err != nil {
		return nil, err
	}

	customers := make([]Customer, len(wire.Customers))
	for i, wc := range wire.Customers {
		customers[i] = Customer{
			ID:               strconv.FormatInt(wc.ID, 10),
			Email:            wc.Email,
			FirstName:        wc.FirstName,
			LastName:         wc.LastName,
			Phone:            wc.Phone,
			TotalSpent:       parseMoney(wc.TotalSpent),
			OrdersCount:      wc.OrdersCount,
			State:            wc.State,
			Tags:             splitTags(wc.Tags),
			AcceptsMarketing: wc.AcceptsMarketing,
			CreatedAt:        wc.CreatedAt,
			UpdatedAt:        wc.UpdatedAt,
		}
	}
	return customers, nil
}

// FetchProducts 拉取店铺商品
func (c *Client) FetchProducts(ctx context.Context, creds Credentials) ([]Product, error) {
	var wire struct {
		Products []wireProduct `json:"products"`
	}
	if err := c.get(ctx, creds, "products", &wire); err != nil {
		return nil, err
	}

	products := make([]Product, len(wire.Products))
	for i, wp := range wire.Products {
		p := Product{
			ID:          strconv.FormatInt(wp.ID, 10),
			Title:       wp.Title,
			Handle:      wp.Handle,
			ProductType: wp.ProductType,
			Vendor:      wp.Vendor,
			Status:      wp.Status,
			Tags:        splitTags(wp.Tags),
			CreatedAt:   wp.CreatedAt,
			UpdatedAt:   wp.UpdatedAt,
		}
		// 价格与库存取首个变体
		if len(wp.Variants) > 0 {
			v := wp.Variants[0]
			p.Price = parseMoney(v.Price)
			p.CompareAtPrice = parseMoney(v.CompareAtPrice)
			p.InventoryQuantity = v.InventoryQuantity
		}
		products[i] = p
	}
	return products, nil
}

// FetchOrders 拉取店铺订单（含订单项）
func (c *Client) FetchOrders(ctx context.Context, creds Credentials) ([]Order, error) {
	var wire struct {
		Orders []wireOrder `json:"orders"`
	}
	if err := c.get(ctx, creds, "orders", &wire); err != nil {
		return nil, err
	}

	orders := make([]Order, len(wire.Orders))
	for i, wo := range wire.Orders {
		o := Order{
			ID:                strconv.FormatInt(wo.ID, 10),
			OrderNumber:       fmt.Sprintf("#%d", wo.OrderNumber),
			Email:             wo.Email,
			TotalPrice:        parseMoney(wo.TotalPrice),
			SubtotalPrice:     parseMoney(wo.SubtotalPrice),
			TotalTax:          parseMoney(wo.TotalTax),
			TotalDiscounts:    parseMoney(wo.TotalDiscounts),
			Currency:          wo.Currency,
			FinancialStatus:   wo.FinancialStatus,
			FulfillmentStatus: wo.FulfillmentStatus,
			Tags:              splitTags(wo.Tags),
			CreatedAt:         wo.CreatedAt,
			UpdatedAt:         wo.UpdatedAt,
		}
		if wo.Customer != nil {
			o.CustomerID = strconv.FormatInt(wo.Customer.ID, 10)
		}
		o.LineItems = make([]LineItem, len(wo.LineItems))
		for j, wl := range wo.LineItems {
			item := LineItem{
				Title:         wl.Title,
				Quantity:      wl.Quantity,
				Price:         parseMoney(wl.Price),
				TotalDiscount: parseMoney(wl.TotalDiscount),
				SKU:           wl.SKU,
			}
			if wl.ProductID != nil {
				item.ProductID = strconv.FormatInt(*wl.ProductID, 10)
			}
			if wl.VariantID != nil {
				item.VariantID = strconv.FormatInt(*wl.VariantID, 10)
			}
			o.LineItems[j] = item
		}
		orders[i] = o
	}
	return orders, nil
}

// ==================== 线格式 ====================

// Shopify REST 金额字段为字符串，ID 为数字

type wireCustomer struct {
	ID               int64  `json:"id"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Phone            string `json:"phone"`
	TotalSpent       string `json:"total_spent"`
	OrdersCount      int    `json:"orders_count"`
	State            string `json:"state"`
	Tags             string `json:"tags"`
	AcceptsMarketing bool   `json:"accepts_marketing"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

type wireVariant struct {
	Price             string `json:"price"`
	CompareAtPrice    string `json:"compare_at_price"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

type wireProduct struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Handle      string        `json:"handle"`
	ProductType string        `json:"product_type"`
	Vendor      string        `json:"vendor"`
	Status      string        `json:"status"`
	Tags        string        `json:"tags"`
	Variants    []wireVariant `json:"variants"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
}

type wireLineItem struct {
	ProductID     *int64 `json:"product_id"`
	VariantID     *int64 `json:"variant_id"`
	Title         string `json:"title"`
	Quantity      int    `json:"quantity"`
	Price         string `json:"price"`
	TotalDiscount string `json:"total_discount"`
	SKU           string `json:"sku"`
}

type wireOrder struct {
	ID          int64 `json:"id"`
	OrderNumber int64 `json:"order_number"`
	Customer    *struct {
		ID int64 `json:"id"`
	} `json:"customer"`
	Email             string         `json:"email"`
	TotalPrice        string         `json:"total_price"`
	SubtotalPrice     string         `json:"subtotal_price"`
	TotalTax          string         `json:"total_tax"`
	TotalDiscounts    string         `json:"total_discounts"`
	Currency          string         `json:"currency"`
	FinancialStatus   string         `json:"financial_status"`
	FulfillmentStatus string         `json:"fulfillment_status"`
	Tags              string         `json:"tags"`
	CreatedAt         string         `json:"created_at"`
	UpdatedAt         string         `json:"updated_at"`
	LineItems         []wireLineItem `json:"line_items"`
}

// ==================== 辅助函数 ====================

// parseMoney 解析金额字符串，空串/非法值按 0 处理
func parseMoney(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// splitTags 逗号分隔的标签串转列表
func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
