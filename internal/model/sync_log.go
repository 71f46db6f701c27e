package model

import "time"

// 同步类型常量
const (
	SyncTypeCustomers = "customers"
	SyncTypeProducts  = "products"
	SyncTypeOrders    = "orders"
)

// 同步状态常量
const (
	SyncStatusInProgress = "in_progress"
	SyncStatusSuccess    = "success"
	SyncStatusError      = "error"
)

// SyncLog 同步审计日志，每次同步一条
type SyncLog struct {
	BaseModel
	StoreID int64 `gorm:"index:idx_store_sync_type,priority:1;not null"`
	// customers / products / orders
	SyncType string `gorm:"size:20;index:idx_store_sync_type,priority:2;not null"`
	// in_progress / success / error
	Status string `gorm:"size:20;index"`

	RecordsProcessed int    `gorm:"default:0"`
	ErrorMessage     string `gorm:"type:text"`

	StartedAt   time.Time
	CompletedAt *time.Time
}

func (SyncLog) TableName() string {
	return "sync_logs"
}
