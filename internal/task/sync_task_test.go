package task

import (
	"context"
	"errors"
	"testing"

	"shoplytics_v1_202601/internal/api/dto"
	"shoplytics_v1_202601/internal/model"
	"shoplytics_v1_202601/internal/service"
)

// fakeLister 内存店铺列表
type fakeLister struct {
	stores []model.Store
	err    error
}

func (f *fakeLister) ListActiveStores(_ context.Context) ([]model.Store, error) {
	return f.stores, f.err
}

// fakeRunner 按店铺 ID 返回预置结果，记录调用顺序
type fakeRunner struct {
	errs   map[int64]error
	called []int64
}

func (f *fakeRunner) FullSync(_ context.Context, store *model.Store) (*dto.SyncCounts, error) {
	f.called = append(f.called, store.ID)
	if err := f.errs[store.ID]; err != nil {
		return nil, err
	}
	return &dto.SyncCounts{Customers: 1, Products: 1, Orders: 1}, nil
}

func testStore(id int64) model.Store {
	s := model.Store{Name: "Store", IsActive: true}
	s.ID = id
	return s
}

func TestSyncAllStores_ContinuesPastFailures(t *testing.T) {
	lister := &fakeLister{stores: []model.Store{testStore(1), testStore(2), testStore(3)}}
	runner := &fakeRunner{errs: map[int64]error{
		2: service.ErrSyncInProgress,
		3: errors.New("admin api 503"),
	}}

	task := NewFullSyncTask(lister, runner, "")
	task.SyncAllStores(context.Background())

	// 单店跳过/失败都不中断整轮
	if len(runner.called) != 3 {
		t.Fatalf("应处理全部 3 个店铺, 实际 %d: %v", len(runner.called), runner.called)
	}
	if runner.called[0] != 1 || runner.called[1] != 2 || runner.called[2] != 3 {
		t.Errorf("应按列表顺序处理: %v", runner.called)
	}
}

func TestSyncAllStores_ListFailure(t *testing.T) {
	lister := &fakeLister{err: errors.New("db down")}
	runner := &fakeRunner{}

	task := NewFullSyncTask(lister, runner, "")
	task.SyncAllStores(context.Background())

	if len(runner.called) != 0 {
		t.Errorf("列表失败时不应执行同步: %v", runner.called)
	}
}

func TestSyncAllStores_StopsOnCancel(t *testing.T) {
	lister := &fakeLister{stores: []model.Store{testStore(1), testStore(2)}}
	runner := &fakeRunner{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := NewFullSyncTask(lister, runner, "")
	task.SyncAllStores(ctx)

	if len(runner.called) != 0 {
		t.Errorf("已取消的上下文不应继续处理: %v", runner.called)
	}
}

func TestNewFullSyncTask_DefaultSpec(t *testing.T) {
	task := NewFullSyncTask(&fakeLister{}, &fakeRunner{}, "")
	if task.spec != "0 */30 * * * *" {
		t.Errorf("未指定时应使用默认表达式, 实际 %q", task.spec)
	}

	custom := NewFullSyncTask(&fakeLister{}, &fakeRunner{}, "0 0 * * * *")
	if custom.spec != "0 0 * * * *" {
		t.Errorf("应沿用传入的表达式, 实际 %q", custom.spec)
	}
}
