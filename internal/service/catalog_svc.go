package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shoplytics_v1_202601/internal/api/dto"
	"shoplytics_v1_202601/internal/model"
	"shoplytics_v1_202601/internal/repository"
)

// ==================== CatalogService 店铺数据查询服务 ====================

// CatalogService 同步落库数据（客户/商品/订单）的只读查询
type CatalogService struct {
	storeSvc     *StoreService
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	lineItemRepo repository.OrderLineItemRepository
}

// NewCatalogService 创建查询服务
func NewCatalogService(
	storeSvc *StoreService,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	lineItemRepo repository.OrderLineItemRepository,
) *CatalogService {
	return &CatalogService{
		storeSvc:     storeSvc,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		lineItemRepo: lineItemRepo,
	}
}

// ==================== 客户 ====================

// ListCustomers 店铺客户分页列表
func (s *CatalogService) ListCustomers(ctx context.Context, userID, storeID int64, page, pageSize int) (*dto.CustomerListResponse, error) {
	store, err := s.storeSvc.AuthorizeStore(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}

	customers, total, err := s.customerRepo.ListByStorePaged(ctx, store.ID, page, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.CustomerInfo, len(customers))
	for i := range customers {
		c := &customers[i]
		list[i] = &dto.CustomerInfo{
			ID:                c.ID,
			ShopifyCustomerID: c.ShopifyCustomerID,
			Email:             c.Email,
			Name:              c.DisplayName(),
			Phone:             c.Phone,
			TotalSpent:        c.TotalSpent,
			OrdersCount:       c.OrdersCount,
			State:             c.State,
			Tags:              c.Tags,
			AcceptsMarketing:  c.AcceptsMarketing,
			CreatedAt:         c.CreatedAt,
		}
	}
	return &dto.CustomerListResponse{List: list, Total: total}, nil
}

// ==================== 商品 ====================

// ListProducts 店铺商品分页列表
func (s *CatalogService) ListProducts(ctx context.Context, userID, storeID int64, page, pageSize int) (*dto.ProductListResponse, error) {
	store, err := s.storeSvc.AuthorizeStore(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}

	products, total, err := s.productRepo.ListByStorePaged(ctx, store.ID, page, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.ProductInfo, len(products))
	for i := range products {
		p := &products[i]
		list[i] = &dto.ProductInfo{
			ID:                p.ID,
			ShopifyProductID:  p.ShopifyProductID,
			Title:             p.Title,
			Handle:            p.Handle,
			ProductType:       p.ProductType,
			Vendor:            p.Vendor,
			Status:            p.Status,
			Tags:              p.Tags,
			Price:             p.Price,
			CompareAtPrice:    p.CompareAtPrice,
			InventoryQuantity: p.InventoryQuantity,
			CreatedAt:         p.CreatedAt,
		}
	}
	return &dto.ProductListResponse{List: list, Total: total}, nil
}

// ==================== 订单 ====================

// ListOrders 店铺订单分页列表，支持下单日期范围过滤
func (s *CatalogService) ListOrders(ctx context.Context, userID, storeID int64, req *dto.OrderListRequest) (*dto.OrderListResponse, error) {
	store, err := s.storeSvc.AuthorizeStore(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}

	orders, total, err := s.orderRepo.List(ctx, repository.OrderFilter{
		StoreID:   store.ID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	list := make([]*dto.OrderInfo, len(orders))
	for i := range orders {
		list[i] = toOrderInfo(&orders[i], nil)
	}
	return &dto.OrderListResponse{List: list, Total: total}, nil
}

// GetOrder 订单详情（含订单项）
func (s *CatalogService) GetOrder(ctx context.Context, userID, storeID, orderID int64) (*dto.OrderInfo, error) {
	store, err := s.storeSvc.AuthorizeStore(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if order.StoreID != store.ID {
		return nil, ErrAccessDenied
	}
	return toOrderInfo(order, order.Items), nil
}

// ==================== 辅助方法 ====================

func toOrderInfo(o *model.Order, items []model.OrderLineItem) *dto.OrderInfo {
	info := &dto.OrderInfo{
		ID:                o.ID,
		ShopifyOrderID:    o.ShopifyOrderID,
		OrderNumber:       o.OrderNumber,
		CustomerID:        o.CustomerID,
		CustomerEmail:     o.CustomerEmail,
		TotalPrice:        o.TotalPrice,
		SubtotalPrice:     o.SubtotalPrice,
		TotalTax:          o.TotalTax,
		TotalDiscounts:    o.TotalDiscounts,
		Currency:          o.Currency,
		FinancialStatus:   o.FinancialStatus,
		FulfillmentStatus: o.FulfillmentStatus,
		Tags:              o.Tags,
		OrderDate:         o.OrderDate,
	}
	for i := range items {
		item := &items[i]
		info.Items = append(info.Items, dto.OrderLineItemInfo{
			ID:               item.ID,
			ShopifyProductID: item.ShopifyProductID,
			ShopifyVariantID: item.ShopifyVariantID,
			Title:            item.Title,
			Quantity:         item.Quantity,
			Price:            item.Price,
			TotalDiscount:    item.TotalDiscount,
			SKU:              item.SKU,
		})
	}
	return info
}

// ==================== 错误定义 ====================

var ErrOrderNotFound = errors.New("订单不存在")
