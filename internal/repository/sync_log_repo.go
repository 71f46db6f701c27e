package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"shoplytics_v1_202601/internal/model"
)

// ==================== 接口定义 ====================

// SyncLogRepository 同步日志仓储接口
type SyncLogRepository interface {
	// Create 写入一条 in_progress 日志，返回日志记录
	Create(ctx context.Context, storeID int64, syncType string) (*model.SyncLog, error)
	// Complete 收尾：写状态/处理条数/完成时间，错误时附错误信息
	Complete(ctx context.Context, id int64, status string, recordsProcessed int, errorMessage string) error

	GetByID(ctx context.Context, id int64) (*model.SyncLog, error)
	ListByStore(ctx context.Context, storeID int64, limit int) ([]model.SyncLog, error)
}

// ==================== 仓储实现 ====================

type syncLogRepo struct {
	db *gorm.DB
}

// NewSyncLogRepository 创建同步日志仓储
func NewSyncLogRepository(db *gorm.DB) SyncLogRepository {
	return &syncLogRepo{db: db}
}

func (r *syncLogRepo) Create(ctx context.Context, storeID int64, syncType string) (*model.SyncLog, error) {
	logRow := &model.SyncLog{
		StoreID:   storeID,
		SyncType:  syncType,
		Status:    model.SyncStatusInProgress,
		StartedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(logRow).Error; err != nil {
		return nil, err
	}
	return logRow, nil
}

func (r *syncLogRepo) Complete(ctx context.Context, id int64, status string, recordsProcessed int, errorMessage string) error {
	now := time.Now()
	fields := map[string]interface{}{
		"status":            status,
		"records_processed": recordsProcessed,
		"completed_at":      now,
	}
	if errorMessage != "" {
		fields["error_message"] = errorMessage
	}
	return r.db.WithContext(ctx).
		Model(&model.SyncLog{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *syncLogRepo) GetByID(ctx context.Context, id int64) (*model.SyncLog, error) {
	var logRow model.SyncLog
	if err := r.db.WithContext(ctx).First(&logRow, id).Error; err != nil {
		return nil, err
	}
	return &logRow, nil
}

func (r *syncLogRepo) ListByStore(ctx context.Context, storeID int64, limit int) ([]model.SyncLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var logs []model.SyncLog
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("started_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
