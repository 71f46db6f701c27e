package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	// 服务
	ServerPort string
	GinMode    string

	// 数据库
	DatabaseDSN string

	// JWT
	JWTSecret string

	// 同步
	SyncBatchSize    int    // 单批并发上限
	SyncCronSpec     string // 全量同步调度表达式
	SyncTaskEnabled  bool   // 是否启动定时同步
	ShopifyAPIBase   string // Admin API 版本路径
	WebhookSecretEnv string // 全局 webhook 密钥（店铺未配置时的回退）
}

// Load 加载配置
// 先尝试读取 .env（不存在则忽略），再从环境变量取值
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("[Config] 已加载 .env 文件")
	}

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=shoplytics password=shoplytics dbname=shoplytics port=5432 sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", ""),

		SyncBatchSize:    getEnvInt("SYNC_BATCH_SIZE", 10),
		SyncCronSpec:     getEnv("SYNC_CRON_SPEC", "0 */30 * * * *"),
		SyncTaskEnabled:  getEnvBool("SYNC_TASK_ENABLED", true),
		ShopifyAPIBase:   getEnv("SHOPIFY_API_VERSION", "2024-01"),
		WebhookSecretEnv: getEnv("SHOPIFY_WEBHOOK_SECRET", ""),
	}
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
