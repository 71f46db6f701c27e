package shopify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestMockSource_Counts(t *testing.T) {
	m := NewMockSource()
	ctx := context.Background()

	customers, err := m.FetchCustomers(ctx, Credentials{})
	if err != nil {
		t.Fatalf("FetchCustomers() error = %v", err)
	}
	if len(customers) != 20 {
		t.Errorf("客户数量应为 20, 实际 %d", len(customers))
	}

	products, err := m.FetchProducts(ctx, Credentials{})
	if err != nil {
		t.Fatalf("FetchProducts() error = %v", err)
	}
	if len(products) != 15 {
		t.Errorf("商品数量应为 15, 实际 %d", len(products))
	}

	orders, err := m.FetchOrders(ctx, Credentials{})
	if err != nil {
		t.Fatalf("FetchOrders() error = %v", err)
	}
	if len(orders) != 40 {
		t.Errorf("订单数量应为 40, 实际 %d", len(orders))
	}
}

// 全量同步对同一个 MockSource 并发调用三个 Fetch，-race 下必须干净
func TestMockSource_ConcurrentFetch(t *testing.T) {
	m := NewMockSource()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 3)

	wg.Add(3)
	go func() {
		defer wg.Done()
		_, err := m.FetchCustomers(ctx, Credentials{})
		errs <- err
	}()
	go func() {
		defer wg.Done()
		_, err := m.FetchProducts(ctx, Credentials{})
		errs <- err
	}()
	go func() {
		defer wg.Done()
		_, err := m.FetchOrders(ctx, Credentials{})
		errs <- err
	}()
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("并发 Fetch 不应报错: %v", err)
		}
	}
}

func TestMockSource_OrderReferences(t *testing.T) {
	m := NewMockSource()
	orders, err := m.FetchOrders(context.Background(), Credentials{})
	if err != nil {
		t.Fatalf("FetchOrders() error = %v", err)
	}

	for _, o := range orders {
		// 客户引用必须落在生成的客户 ID 空间内
		if !strings.HasPrefix(o.CustomerID, "customer_") {
			t.Fatalf("订单 %s 客户引用格式不符: %s", o.ID, o.CustomerID)
		}
		var idx int
		if _, err := fmt.Sscanf(o.CustomerID, "customer_%d", &idx); err != nil || idx < 1 || idx > 20 {
			t.Errorf("订单 %s 引用了不存在的客户: %s", o.ID, o.CustomerID)
		}

		if len(o.LineItems) == 0 {
			t.Errorf("订单 %s 应至少有一个订单项", o.ID)
		}
		for _, item := range o.LineItems {
			var pidx int
			if _, err := fmt.Sscanf(item.ProductID, "product_%d", &pidx); err != nil || pidx < 1 || pidx > 15 {
				t.Errorf("订单 %s 引用了不存在的商品: %s", o.ID, item.ProductID)
			}
			if item.Quantity < 1 {
				t.Errorf("订单项数量应至少为 1, 实际 %d", item.Quantity)
			}
		}

		if o.TotalPrice <= 0 {
			t.Errorf("订单 %s 金额应为正数: %v", o.ID, o.TotalPrice)
		}
	}
}

func TestMockSource_Timestamps(t *testing.T) {
	m := NewMockSource()
	customers, err := m.FetchCustomers(context.Background(), Credentials{})
	if err != nil {
		t.Fatalf("FetchCustomers() error = %v", err)
	}

	for _, c := range customers {
		if _, err := time.Parse(time.RFC3339, c.CreatedAt); err != nil {
			t.Errorf("客户 %s created_at 应为 RFC3339: %q", c.ID, c.CreatedAt)
		}
		if c.TotalSpent < 100 {
			t.Errorf("客户 %s 消费额低于生成下限: %v", c.ID, c.TotalSpent)
		}
	}
}
