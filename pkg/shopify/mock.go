package shopify

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// ==================== Mock 数据源 ====================

// MockSource 本地生成的模拟数据源
// 店铺未配置 AccessToken 时使用，数据量压低保证预览同步速度
type MockSource struct {
	// 全量同步会并发调用三个 Fetch，rand.Rand 非并发安全，需要加锁
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockSource 创建 Mock 数据源
func NewMockSource() *MockSource {
	return &MockSource{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

const (
	mockCustomerCount = 20
	mockProductCount  = 15
	mockOrderCount    = 40
)

var (
	mockProductTypes = []string{"Electronics", "Clothing", "Home", "Books"}
	mockVendors      = []string{"Brand A", "Brand B", "Brand C"}
	mockCustomerTags = []string{"vip", "newsletter"}
	mockProductTags  = []string{"featured", "sale", "new"}
	mockOrderTags    = []string{"priority", "gift"}
	mockFinStatuses  = []string{"paid", "pending", "authorized"}
	mockFulStatuses  = []string{"fulfilled", "partial", ""}
)

// FetchCustomers 生成模拟客户
func (m *MockSource) FetchCustomers(_ context.Context, _ Credentials) ([]Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	customers := make([]Customer, mockCustomerCount)
	for i := 0; i < mockCustomerCount; i++ {
		created := now.Add(-time.Duration(m.rng.Float64() * 365 * 24 * float64(time.Hour)))
		customers[i] = Customer{
			ID:               fmt.Sprintf("customer_%d", i+1),
			Email:            fmt.Sprintf("customer%d@example.com", i+1),
			FirstName:        "Customer",
			LastName:         fmt.Sprintf("%d", i+1),
			Phone:            fmt.Sprintf("+1555%07d", i+1),
			TotalSpent:       float64(m.rng.Intn(5000) + 100),
			OrdersCount:      m.rng.Intn(20) + 1,
			State:            "enabled",
			Tags:             mockCustomerTags[:m.rng.Intn(len(mockCustomerTags)+1)],
			AcceptsMarketing: m.rng.Float64() > 0.5,
			CreatedAt:        created.Format(time.RFC3339),
			UpdatedAt:        now.Format(time.RFC3339),
		}
	}
	return customers, nil
}

// FetchProducts 生成模拟商品
func (m *MockSource) FetchProducts(_ context.Context, _ Credentials) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	products := make([]Product, mockProductCount)
	for i := 0; i < mockProductCount; i++ {
		created := now.Add(-time.Duration(m.rng.Float64() * 365 * 24 * float64(time.Hour)))
		products[i] = Product{
			ID:                fmt.Sprintf("product_%d", i+1),
			Title:             fmt.Sprintf("Product %d", i+1),
			Handle:            fmt.Sprintf("product-%d", i+1),
			ProductType:       mockProductTypes[m.rng.Intn(len(mockProductTypes))],
			Vendor:            mockVendors[m.rng.Intn(len(mockVendors))],
			Status:            "active",
			Tags:              mockProductTags[:m.rng.Intn(len(mockProductTags)+1)],
			Price:             m.rng.Float64()*200 + 10,
			CompareAtPrice:    m.rng.Float64()*300 + 50,
			InventoryQuantity: m.rng.Intn(100),
			CreatedAt:         created.Format(time.RFC3339),
			UpdatedAt:         now.Format(time.RFC3339),
		}
	}
	return products, nil
}

// FetchOrders 生成模拟订单（客户/商品引用与上面两组生成规则一致）
func (m *MockSource) FetchOrders(_ context.Context, _ Credentials) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := make([]Order, mockOrderCount)
	for i := 0; i < mockOrderCount; i++ {
		orderDate := time.Now().Add(-time.Duration(m.rng.Float64() * 90 * 24 * float64(time.Hour)))
		customerIdx := m.rng.Intn(mockCustomerCount)
		totalPrice := float64(m.rng.Intn(500) + 20)

		orders[i] = Order{
			ID:                fmt.Sprintf("order_%d", i+1),
			OrderNumber:       fmt.Sprintf("#%d", 1000+i),
			CustomerID:        fmt.Sprintf("customer_%d", customerIdx+1),
			Email:             fmt.Sprintf("customer%d@example.com", customerIdx+1),
			TotalPrice:        totalPrice,
			SubtotalPrice:     totalPrice * 0.9,
			TotalTax:          totalPrice * 0.1,
			TotalDiscounts:    0,
			Currency:          "USD",
			FinancialStatus:   mockFinStatuses[m.rng.Intn(len(mockFinStatuses))],
			FulfillmentStatus: mockFulStatuses[m.rng.Intn(len(mockFulStatuses))],
			Tags:              mockOrderTags[:m.rng.Intn(len(mockOrderTags)+1)],
			CreatedAt:         orderDate.Format(time.RFC3339),
			UpdatedAt:         orderDate.Format(time.RFC3339),
			LineItems: []LineItem{{
				ProductID:     fmt.Sprintf("product_%d", m.rng.Intn(mockProductCount)+1),
				VariantID:     fmt.Sprintf("variant_%d", i+1),
				Title:         fmt.Sprintf("Product %d", m.rng.Intn(30)+1),
				Quantity:      m.rng.Intn(3) + 1,
				Price:         totalPrice / 2,
				TotalDiscount: 0,
				SKU:           fmt.Sprintf("SKU-%d", i+1),
			}},
		}
	}
	return orders, nil
}
