package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig 应用基础信息
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
}

// TCPConfig 串口桥接网关配置（ser2net/Moxa 等设备服务器经TCP投递字节流）
type TCPConfig struct {
	Addr           string        `mapstructure:"addr"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	MaxConnections int           `mapstructure:"maxConnections"`
	AcquireTimeout time.Duration `mapstructure:"acquireTimeout"`
}

// LumberjackConfig 日志滚动（lumberjack）配置
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig 日志级别与输出配置
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// MetricsConfig Prometheus 指标暴露配置
type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Path   string `mapstructure:"path"`
}

// SessionConfig 在线判定配置
type SessionConfig struct {
	OfflineTimeout time.Duration `mapstructure:"offlineTimeout"`
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"poolSize"`
	MinIdleConns int           `mapstructure:"minIdleConns"`
	DialTimeout  time.Duration `mapstructure:"dialTimeout"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
}

// RedisSinkConfig 读数下发到 Redis Stream 的配置
type RedisSinkConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Stream  string `mapstructure:"stream"`
	MaxLen  int64  `mapstructure:"maxLen"`
}

// WebhookSinkConfig 读数推送第三方 Webhook 的配置
type WebhookSinkConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	URL        string  `mapstructure:"url"`
	APIKey     string  `mapstructure:"apiKey"`
	Retries    int     `mapstructure:"retries"`
	RatePerSec float64 `mapstructure:"ratePerSec"`
	Burst      int     `mapstructure:"burst"`
}

// SinkConfig 读数出口配置
type SinkConfig struct {
	Redis   RedisSinkConfig   `mapstructure:"redis"`
	Webhook WebhookSinkConfig `mapstructure:"webhook"`
}

// DeviceConfig 已知称重设备描述（供设备清单接口）
type DeviceConfig struct {
	Name      string `mapstructure:"name"`
	VendorID  int    `mapstructure:"vendorId"`
	ProductID int    `mapstructure:"productId"`
}

// Config 顶层配置结构
type Config struct {
	App     AppConfig      `mapstructure:"app"`
	HTTP    HTTPConfig     `mapstructure:"http"`
	TCP     TCPConfig      `mapstructure:"tcp"`
	Logging LoggingConfig  `mapstructure:"logging"`
	Metrics MetricsConfig  `mapstructure:"metrics"`
	Session SessionConfig  `mapstructure:"session"`
	Redis   RedisConfig    `mapstructure:"redis"`
	Sink    SinkConfig     `mapstructure:"sink"`
	Devices []DeviceConfig `mapstructure:"devices"`
}

// Load 从 YAML 文件与环境变量加载配置。
// path 为空时回退到 ./configs/example.yaml；缺少文件时依赖默认值与环境变量。
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetConfigName("example")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	// 环境变量覆盖：前缀 SCALE_，点号替换为下划线
	v.SetEnvPrefix("SCALE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if fmt.Sprintf("%T", err) != fmt.Sprintf("%T", notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "scale-server")
	v.SetDefault("app.env", "dev")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.readTimeout", "5s")
	v.SetDefault("http.writeTimeout", "10s")

	v.SetDefault("tcp.addr", ":7010")
	v.SetDefault("tcp.readTimeout", "300s")
	v.SetDefault("tcp.writeTimeout", "10s")
	v.SetDefault("tcp.maxConnections", 1000)
	v.SetDefault("tcp.acquireTimeout", "5s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file.filename", "logs/scale-server.log")
	v.SetDefault("logging.file.maxSize", 100)
	v.SetDefault("logging.file.maxBackups", 7)
	v.SetDefault("logging.file.maxAge", 30)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("metrics.enable", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("session.offlineTimeout", "30s")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.poolSize", 10)
	v.SetDefault("redis.minIdleConns", 2)
	v.SetDefault("redis.dialTimeout", "5s")
	v.SetDefault("redis.readTimeout", "3s")
	v.SetDefault("redis.writeTimeout", "3s")

	v.SetDefault("sink.redis.enabled", false)
	v.SetDefault("sink.redis.stream", "scale:readings")
	v.SetDefault("sink.redis.maxLen", 100000)
	v.SetDefault("sink.webhook.enabled", false)
	v.SetDefault("sink.webhook.retries", 3)
	v.SetDefault("sink.webhook.ratePerSec", 20)
	v.SetDefault("sink.webhook.burst", 40)
}
