package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server           ServerConfig
	Database         DatabaseConfig
	Storage          StorageConfig
	Tracing          TracingConfig `mapstructure:"tracing"`
	Redis            RedisConfig
	Tracker          TrackerConfig          `mapstructure:"tracker"`
	SettingsDefaults SettingsDefaultsConfig `mapstructure:"settings_defaults"`
	CORS             CORSConfig             `mapstructure:"cors"`
	RateLimit        RateLimitConfig        `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"` // 强制执行数据库迁移
	MigrateOnly  bool `mapstructure:"-"` // 仅迁移模式（迁移后退出）
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// TrackerConfig 练习记录与导入相关配置
type TrackerConfig struct {
	Timezone                string `mapstructure:"timezone"`
	PendingImportTTLMinutes int    `mapstructure:"pending_import_ttl_minutes"`
	BackupPrefix            string `mapstructure:"backup_prefix"`
	// PlanSyncIntervalMinutes 定时重算计划进度，过期计划据此转为未达成；0 表示关闭
	PlanSyncIntervalMinutes int `mapstructure:"plan_sync_interval_minutes"`
}

// SettingsDefaultsConfig 用户设置的默认值，导入或保存时未提供的字段使用这些值
type SettingsDefaultsConfig struct {
	NavMode      string `mapstructure:"nav_mode"`
	EyeCare      bool   `mapstructure:"eye_care"`
	Notification bool   `mapstructure:"notification"`
	PageSize     int    `mapstructure:"page_size"`
	Theme        string `mapstructure:"theme"`
}

// Location 返回日期归一化使用的时区，配置无效时回退到本地时区
func (c TrackerConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// PlanSyncInterval 为 0 时不启动定时同步
func (c TrackerConfig) PlanSyncInterval() time.Duration {
	if c.PlanSyncIntervalMinutes <= 0 {
		return 0
	}
	return time.Duration(c.PlanSyncIntervalMinutes) * time.Minute
}

// PendingImportTTL 待确认导入的保留时长
func (c TrackerConfig) PendingImportTTL() time.Duration {
	if c.PendingImportTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.PendingImportTTLMinutes) * time.Minute
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.charset", "utf8mb4")
	viper.SetDefault("database.parsetime", true)
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.local_path", "uploads")
	viper.SetDefault("tracker.timezone", "Asia/Shanghai")
	viper.SetDefault("tracker.pending_import_ttl_minutes", 30)
	viper.SetDefault("tracker.backup_prefix", "backups")
	viper.SetDefault("tracker.plan_sync_interval_minutes", 10)
	viper.SetDefault("settings_defaults.nav_mode", "sidebar")
	viper.SetDefault("settings_defaults.eye_care", false)
	viper.SetDefault("settings_defaults.notification", true)
	viper.SetDefault("settings_defaults.page_size", 10)
	viper.SetDefault("settings_defaults.theme", "light")
	viper.SetDefault("rate_limit.max_requests", 6000)
	viper.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("EXAM_TRACKER")
	viper.AutomaticEnv()

	setDefaults()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.enabled", "REDIS_ENABLED")
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Storage / OSS
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	viper.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	viper.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	viper.BindEnv("storage.oss_bucket", "OSS_BUCKET")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// Tracker
	viper.BindEnv("tracker.timezone", "TRACKER_TIMEZONE")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if _, err := time.LoadLocation(cfg.Tracker.Timezone); err != nil {
		return nil, fmt.Errorf("invalid tracker timezone %q: %w", cfg.Tracker.Timezone, err)
	}

	if cfg.SettingsDefaults.PageSize <= 0 {
		return nil, fmt.Errorf("settings_defaults.page_size must be positive, got %d", cfg.SettingsDefaults.PageSize)
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}
