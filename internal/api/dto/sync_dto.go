package dto

import "time"

// ==================== 同步响应 ====================

// SyncResult 单类数据同步结果
type SyncResult struct {
	SyncType         string `json:"sync_type"`
	RecordsProcessed int    `json:"records_processed"`
}

// FullSyncResponse 全量同步响应
type FullSyncResponse struct {
	StoreID   int64       `json:"store_id"`
	Results   *SyncCounts `json:"results"`
	StartedAt time.Time   `json:"started_at"`
}

// SyncCounts 三类数据的处理条数
type SyncCounts struct {
	Customers int `json:"customers"`
	Products  int `json:"products"`
	Orders    int `json:"orders"`
}

// SyncLogInfo 同步日志信息
type SyncLogInfo struct {
	ID               int64      `json:"id"`
	StoreID          int64      `json:"store_id"`
	SyncType         string     `json:"sync_type"`
	Status           string     `json:"status"`
	RecordsProcessed int        `json:"records_processed"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
}
