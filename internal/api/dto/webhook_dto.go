package dto

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Shopify webhook 负载里同一字段在不同主题/版本下可能是字符串或数字，
// tags 可能是逗号分隔字符串或数组。Flex 系列类型统一兜住这些形态。

// ==================== Flex 类型 ====================

// FlexID 兼容数字/字符串两种形态的 ID，统一存为字符串
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

// FlexFloat 兼容数字/字符串两种形态的金额
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexFloat) Float64() float64 { return float64(f) }

// FlexTags 兼容逗号分隔字符串或字符串数组两种形态的标签
type FlexTags []string

func (f *FlexTags) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = nil
		return nil
	}
	if data[0] == '[' {
		var arr []string
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		*f = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*f = nil
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	*f = tags
	return nil
}

// ==================== Webhook 负载 ====================

// WebhookCustomerPayload customers/create 和 customers/update 负载
type WebhookCustomerPayload struct {
	ID               FlexID    `json:"id"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Phone            string    `json:"phone"`
	TotalSpent       FlexFloat `json:"total_spent"`
	OrdersCount      int       `json:"orders_count"`
	State            string    `json:"state"`
	Tags             FlexTags  `json:"tags"`
	AcceptsMarketing bool      `json:"accepts_marketing"`
	CreatedAt        string    `json:"created_at"`
	UpdatedAt        string    `json:"updated_at"`
}

// WebhookVariantPayload 商品变体负载（取第一个变体的价格和库存）
type WebhookVariantPayload struct {
	Price             FlexFloat  `json:"price"`
	CompareAtPrice    *FlexFloat `json:"compare_at_price"`
	InventoryQuantity int        `json:"inventory_quantity"`
	SKU               string     `json:"sku"`
}

// WebhookProductPayload products/create 和 products/update 负载
type WebhookProductPayload struct {
	ID          FlexID                  `json:"id"`
	Title       string                  `json:"title"`
	Handle      string                  `json:"handle"`
	ProductType string                  `json:"product_type"`
	Vendor      string                  `json:"vendor"`
	Status      string                  `json:"status"`
	Tags        FlexTags                `json:"tags"`
	Variants    []WebhookVariantPayload `json:"variants"`
	CreatedAt   string                  `json:"created_at"`
	UpdatedAt   string                  `json:"updated_at"`
}

// WebhookLineItemPayload 订单项负载
type WebhookLineItemPayload struct {
	ID            FlexID    `json:"id"`
	ProductID     *FlexID   `json:"product_id"`
	VariantID     *FlexID   `json:"variant_id"`
	Title         string    `json:"title"`
	Quantity      int       `json:"quantity"`
	Price         FlexFloat `json:"price"`
	TotalDiscount FlexFloat `json:"total_discount"`
	SKU           string    `json:"sku"`
}

// WebhookOrderCustomer 订单负载中内嵌的客户引用
type WebhookOrderCustomer struct {
	ID FlexID `json:"id"`
}

// WebhookOrderPayload orders/create 和 orders/updated 负载
type WebhookOrderPayload struct {
	ID                FlexID                   `json:"id"`
	OrderNumber       FlexID                   `json:"order_number"`
	Name              string                   `json:"name"`
	Customer          *WebhookOrderCustomer    `json:"customer"`
	Email             string                   `json:"email"`
	TotalPrice        FlexFloat                `json:"total_price"`
	SubtotalPrice     FlexFloat                `json:"subtotal_price"`
	TotalTax          FlexFloat                `json:"total_tax"`
	TotalDiscounts    FlexFloat                `json:"total_discounts"`
	Currency          string                   `json:"currency"`
	FinancialStatus   string                   `json:"financial_status"`
	FulfillmentStatus string                   `json:"fulfillment_status"`
	Tags              FlexTags                 `json:"tags"`
	LineItems         []WebhookLineItemPayload `json:"line_items"`
	CreatedAt         string                   `json:"created_at"`
	UpdatedAt         string                   `json:"updated_at"`
}
