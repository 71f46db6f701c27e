package dto

// ==================== 仪表盘分析 ====================

// AnalyticsOverview 核心指标
type AnalyticsOverview struct {
	TotalCustomers    int     `json:"total_customers"`
	TotalOrders       int     `json:"total_orders"`
	TotalProducts     int     `json:"total_products"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
	OrderGrowth       float64 `json:"order_growth"`   // 周环比，百分数
	RevenueGrowth     float64 `json:"revenue_growth"` // 周环比，百分数
}

// TopCustomer 消费额 Top 客户
type TopCustomer struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	TotalSpent  float64 `json:"total_spent"`
	OrdersCount int     `json:"orders_count"`
}

// ChartPoint 近 30 天订单曲线上的一个点，只含有单的日期
type ChartPoint struct {
	Date    string  `json:"date"` // "YYYY-MM-DD"
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// RecentActivity 近 30 天活动汇总
type RecentActivity struct {
	OrdersLast30Days  int     `json:"orders_last_30_days"`
	RevenueLast30Days float64 `json:"revenue_last_30_days"`
}

// DashboardAnalytics 仪表盘聚合指标
type DashboardAnalytics struct {
	Overview       AnalyticsOverview `json:"overview"`
	TopCustomers   []TopCustomer     `json:"top_customers"`
	ChartData      []ChartPoint      `json:"chart_data"`
	RecentActivity RecentActivity    `json:"recent_activity"`
}

// ==================== 收入趋势 ====================

// TrendPoint 收入趋势上的一个点
// 1y 粒度为月（"YYYY-MM"），其余粒度为天（"YYYY-MM-DD"）
type TrendPoint struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// RevenueTrendsResponse 收入趋势响应
type RevenueTrendsResponse struct {
	Period string       `json:"period"` // 7d / 30d / 90d / 1y
	Trends []TrendPoint `json:"trends"`
}
