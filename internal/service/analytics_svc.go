package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"shoplytics_v1_202601/internal/api/dto"
	"shoplytics_v1_202601/internal/model"
	"shoplytics_v1_202601/internal/repository"
)

// ==================== AnalyticsService 分析服务 ====================

// AnalyticsService 仪表盘聚合分析服务
// 指标全部按需从订单/客户/商品明细即时计算，不做物化
type AnalyticsService struct {
	storeSvc     *StoreService
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
}

// NewAnalyticsService 创建分析服务
func NewAnalyticsService(
	storeSvc *StoreService,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) *AnalyticsService {
	return &AnalyticsService{
		storeSvc:     storeSvc,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
	}
}

// ==================== 仪表盘 ====================

// GetDashboardAnalytics 仪表盘聚合指标
func (s *AnalyticsService) GetDashboardAnalytics(ctx context.Context, userID, storeID int64) (*dto.DashboardAnalytics, error) {
	store, err := s.storeSvc.AuthorizeStore(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}

	customers, err := s.customerRepo.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}

	totalRevenue := 0.0
	for i := range orders {
		totalRevenue += orders[i].TotalPrice
	}
	averageOrderValue := 0.0
	if len(orders) > 0 {
		averageOrderValue = totalRevenue / float64(len(orders))
	}

	// Top 5 消费客户，并列时保持原有顺序
	sorted := make([]model.Customer, len(customers))
	copy(sorted, customers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalSpent > sorted[j].TotalSpent
	})
	top := sorted
	if len(top) > 5 {
		top = top[:5]
	}
	topCustomers := make([]dto.TopCustomer, len(top))
	for i := range top {
		topCustomers[i] = dto.TopCustomer{
			ID:          top[i].ID,
			Name:        top[i].DisplayName(),
			Email:       top[i].Email,
			TotalSpent:  top[i].TotalSpent,
			OrdersCount: top[i].OrdersCount,
		}
	}

	// 近 30 天按天分桶，没有订单的日期不产出空桶
	now := time.Now()
	thirtyDaysAgo := now.AddDate(0, 0, -30)
	buckets := map[string]*dto.ChartPoint{}
	recentCount := 0
	recentRevenue := 0.0
	for i := range orders {
		orderTime, ok := parseOrderDate(orders[i].OrderDate)
		if !ok || orderTime.Before(thirtyDaysAgo) {
			continue
		}
		recentCount++
		recentRevenue += orders[i].TotalPrice

		day := orders[i].OrderDateDay()
		point, exists := buckets[day]
		if !exists {
			point = &dto.ChartPoint{Date: day}
			buckets[day] = point
		}
		point.Count++
		point.Revenue += orders[i].TotalPrice
	}
	chartData := make([]dto.ChartPoint, 0, len(buckets))
	for _, point := range buckets {
		chartData = append(chartData, *point)
	}
	sort.Slice(chartData, func(i, j int) bool {
		return chartData[i].Date < chartData[j].Date
	})

	// 周环比：近 7 天 vs 前 7 天，上一周为零时增长率记 0
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)
	var lastWeekCount, prevWeekCount int
	var lastWeekRevenue, prevWeekRevenue float64
	for i := range orders {
		orderTime, ok := parseOrderDate(orders[i].OrderDate)
		if !ok {
			continue
		}
		switch {
		case !orderTime.Before(weekAgo):
			lastWeekCount++
			lastWeekRevenue += orders[i].TotalPrice
		case !orderTime.Before(twoWeeksAgo):
			prevWeekCount++
			prevWeekRevenue += orders[i].TotalPrice
		}
	}
	orderGrowth := 0.0
	if prevWeekCount > 0 {
		orderGrowth = float64(lastWeekCount-prevWeekCount) / float64(prevWeekCount) * 100
	}
	revenueGrowth := 0.0
	if prevWeekRevenue > 0 {
		revenueGrowth = (lastWeekRevenue - prevWeekRevenue) / prevWeekRevenue * 100
	}

	return &dto.DashboardAnalytics{
		Overview: dto.AnalyticsOverview{
			TotalCustomers:    len(customers),
			TotalOrders:       len(orders),
			TotalProducts:     len(products),
			TotalRevenue:      totalRevenue,
			AverageOrderValue: averageOrderValue,
			OrderGrowth:       orderGrowth,
			RevenueGrowth:     revenueGrowth,
		},
		TopCustomers: topCustomers,
		ChartData:    chartData,
		RecentActivity: dto.RecentActivity{
			OrdersLast30Days:  recentCount,
			RevenueLast30Days: recentRevenue,
		},
	}, nil
}

// ==================== 收入趋势 ====================

// 各周期对应的回看天数
var trendPeriodDays = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
	"1y":  365,
}

// GetRevenueTrends 收入趋势
// 1y 按月（"YYYY-MM"）分桶，其余周期按天分桶，结果按桶键字典序升序
func (s *AnalyticsService) GetRevenueTrends(ctx context.Context, userID, storeID int64, period string) (*dto.RevenueTrendsResponse, error) {
	days, ok := trendPeriodDays[period]
	if !ok {
		return nil, ErrInvalidPeriod
	}

	store, err := s.storeSvc.AuthorizeStore(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}

	startDate := time.Now().AddDate(0, 0, -days)
	byMonth := period == "1y"

	buckets := map[string]*dto.TrendPoint{}
	for i := range orders {
		orderTime, ok := parseOrderDate(orders[i].OrderDate)
		if !ok || orderTime.Before(startDate) {
			continue
		}

		var key string
		if byMonth {
			// 统一按 UTC 归月，带时区偏移的订单不会漂到相邻月份
			key = orderTime.UTC().Format("2006-01")
		} else {
			key = orders[i].OrderDateDay()
		}

		point, exists := buckets[key]
		if !exists {
			point = &dto.TrendPoint{Period: key}
			buckets[key] = point
		}
		point.Revenue += orders[i].TotalPrice
		point.Orders++
	}

	trends := make([]dto.TrendPoint, 0, len(buckets))
	for _, point := range buckets {
		trends = append(trends, *point)
	}
	sort.Slice(trends, func(i, j int) bool {
		return trends[i].Period < trends[j].Period
	})

	return &dto.RevenueTrendsResponse{Period: period, Trends: trends}, nil
}

// ==================== 辅助方法 ====================

// parseOrderDate 解析 ISO 订单时间，兼容纯日期形式
func parseOrderDate(value string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ==================== 错误定义 ====================

var ErrInvalidPeriod = errors.New("不支持的统计周期")
