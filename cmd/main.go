package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"shoplytics_v1_202601/internal/controller"
	"shoplytics_v1_202601/internal/middleware"
	"shoplytics_v1_202601/internal/model"
	"shoplytics_v1_202601/internal/repository"
	"shoplytics_v1_202601/internal/router"
	"shoplytics_v1_202601/internal/service"
	"shoplytics_v1_202601/internal/task"
	"shoplytics_v1_202601/pkg/config"
	"shoplytics_v1_202601/pkg/database"
	"shoplytics_v1_202601/pkg/shopify"
)

func main() {
	// 1. 加载配置
	cfg := config.Load()
	initJWT(cfg)

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(db, cfg)

	// 4. 启动定时任务
	initTasks(deps, cfg)

	// 5. 初始化路由
	gin.SetMode(cfg.GinMode)
	r := gin.Default()
	router.InitRoutes(r,
		deps.Controllers.Auth,
		deps.Controllers.Store,
		deps.Controllers.Sync,
		deps.Controllers.Analytics,
		deps.Controllers.Catalog,
		deps.Controllers.Webhook,
	)

	// 6. 启动服务
	startServer(r, cfg)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *Controllers
}

// Repositories 仓库集合
type Repositories struct {
	User     repository.UserRepository
	Store    repository.StoreRepository
	Customer repository.CustomerRepository
	Product  repository.ProductRepository
	Order    repository.OrderRepository
	LineItem repository.OrderLineItemRepository
	SyncLog  repository.SyncLogRepository
}

// Services 服务集合
type Services struct {
	User      *service.UserService
	Store     *service.StoreService
	Sync      *service.SyncService
	Analytics *service.AnalyticsService
	Catalog   *service.CatalogService
	Webhook   *service.WebhookService
}

// Controllers 控制器集合
type Controllers struct {
	Auth      *controller.AuthController
	Store     *controller.StoreController
	Sync      *controller.SyncController
	Analytics *controller.AnalyticsController
	Catalog   *controller.CatalogController
	Webhook   *controller.WebhookController
}

// ==================== 初始化函数 ====================

// initJWT 应用 JWT 配置
func initJWT(cfg *config.Config) {
	jwtCfg := middleware.DefaultJWTConfig()
	if cfg.JWTSecret != "" {
		jwtCfg.SecretKey = cfg.JWTSecret
	}
	middleware.SetJWTConfig(jwtCfg)
}

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	db := database.InitDB(cfg.DatabaseDSN,
		// Manager
		&model.SysUser{},
		// Store
		&model.Store{},
		// Shopify 数据
		&model.Customer{}, &model.Product{},
		&model.Order{}, &model.OrderLineItem{},
		// Sync
		&model.SyncLog{},
	)
	middleware.RegisterAuditCallbacks(db)
	return db
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB, cfg *config.Config) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		User:     repository.NewUserRepository(db),
		Store:    repository.NewStoreRepository(db),
		Customer: repository.NewCustomerRepository(db),
		Product:  repository.NewProductRepository(db),
		Order:    repository.NewOrderRepository(db),
		LineItem: repository.NewOrderLineItemRepository(db),
		SyncLog:  repository.NewSyncLogRepository(db),
	}

	// -------- 数据源 --------
	liveSource := shopify.NewClient(cfg.ShopifyAPIBase)
	mockSource := shopify.NewMockSource()

	// -------- 业务服务 --------
	services := &Services{}
	services.User = service.NewUserService(repos.User)
	services.Store = service.NewStoreService(repos.Store)
	services.Sync = service.NewSyncService(
		repos.Store, repos.Customer, repos.Product,
		repos.Order, repos.LineItem, repos.SyncLog,
		liveSource, mockSource,
	)
	services.Sync.SetBatchSize(cfg.SyncBatchSize)
	services.Analytics = service.NewAnalyticsService(
		services.Store, repos.Customer, repos.Product, repos.Order,
	)
	services.Catalog = service.NewCatalogService(
		services.Store, repos.Customer, repos.Product, repos.Order, repos.LineItem,
	)
	services.Webhook = service.NewWebhookService(
		repos.Store, services.Sync, repos.Customer, repos.Product,
	)
	services.Webhook.SetFallbackSecret(cfg.WebhookSecretEnv)

	// -------- Controller 层 --------
	controllers := &Controllers{
		Auth:      controller.NewAuthController(services.User),
		Store:     controller.NewStoreController(services.Store),
		Sync:      controller.NewSyncController(services.Store, services.Sync),
		Analytics: controller.NewAnalyticsController(services.Analytics),
		Catalog:   controller.NewCatalogController(services.Catalog),
		Webhook:   controller.NewWebhookController(services.Webhook),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies, cfg *config.Config) {
	if !cfg.SyncTaskEnabled {
		log.Println("定时同步已禁用")
		return
	}

	fullSyncTask := task.NewFullSyncTask(deps.Repos.Store, deps.Services.Sync, cfg.SyncCronSpec)
	fullSyncTask.Start()

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, cfg *config.Config) {
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}
