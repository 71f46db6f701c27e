package task

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"shoplytics_v1_202601/internal/api/dto"
	"shoplytics_v1_202601/internal/model"
	"shoplytics_v1_202601/internal/service"
)

// ==================== FullSyncTask 定时全量同步任务 ====================

// StoreLister 活跃店铺列表来源
type StoreLister interface {
	ListActiveStores(ctx context.Context) ([]model.Store, error)
}

// SyncRunner 全量同步执行器
type SyncRunner interface {
	FullSync(ctx context.Context, store *model.Store) (*dto.SyncCounts, error)
}

// FullSyncTask 周期性对所有活跃店铺做全量同步
// 依赖通过接口注入，测试时可替换为内存实现
type FullSyncTask struct {
	stores StoreLister
	runner SyncRunner
	cron   *cron.Cron

	// cron 表达式（带秒位），默认每 30 分钟
	spec string
	// 单轮任务超时
	timeout time.Duration
}

// NewFullSyncTask 创建定时同步任务
func NewFullSyncTask(stores StoreLister, runner SyncRunner, spec string) *FullSyncTask {
	if spec == "" {
		spec = "0 */30 * * * *"
	}
	return &FullSyncTask{
		stores:  stores,
		runner:  runner,
		cron:    cron.New(cron.WithSeconds()),
		spec:    spec,
		timeout: 30 * time.Minute,
	}
}

// Start 启动定时任务
func (t *FullSyncTask) Start() {
	// 首次执行（延迟 30 秒，等服务就绪）
	go func() {
		time.Sleep(30 * time.Second)
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		log.Println("[FullSyncTask] 执行首次全量同步...")
		t.SyncAllStores(ctx)
	}()

	_, err := t.cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		t.SyncAllStores(ctx)
	})
	if err != nil {
		log.Printf("[FullSyncTask] 定时任务启动失败: %v", err)
		return
	}

	t.cron.Start()
	log.Printf("[FullSyncTask] 已启动 (%s)", t.spec)
}

// Stop 停止任务
func (t *FullSyncTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("[FullSyncTask] 已停止")
}

// SyncAllStores 逐店铺执行全量同步
// 单店失败只记日志，不中断整轮；已在同步中的店铺跳过
func (t *FullSyncTask) SyncAllStores(ctx context.Context) {
	stores, err := t.stores.ListActiveStores(ctx)
	if err != nil {
		log.Printf("[FullSyncTask] 获取店铺列表失败: %v", err)
		return
	}

	if len(stores) == 0 {
		log.Println("[FullSyncTask] 无活跃店铺需要同步")
		return
	}

	log.Printf("[FullSyncTask] 开始处理 %d 个店铺", len(stores))

	var successCount, failCount, skipCount int
	for i := range stores {
		select {
		case <-ctx.Done():
			log.Println("[FullSyncTask] 任务超时停止")
			return
		default:
		}

		store := &stores[i]
		counts, err := t.runner.FullSync(ctx, store)
		switch {
		case errors.Is(err, service.ErrSyncInProgress):
			log.Printf("[FullSyncTask] 店铺 %s(%d) 已在同步中，跳过", store.Name, store.ID)
			skipCount++
		case err != nil:
			log.Printf("[FullSyncTask] 店铺 %s(%d) 同步失败: %v", store.Name, store.ID, err)
			failCount++
		default:
			log.Printf("[FullSyncTask] 店铺 %s(%d) 同步完成: 客户 %d, 商品 %d, 订单 %d",
				store.Name, store.ID, counts.Customers, counts.Products, counts.Orders)
			successCount++
		}
	}

	log.Printf("[FullSyncTask] 本轮完成: 成功 %d, 失败 %d, 跳过 %d", successCount, failCount, skipCount)
}
