package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	App      AppConfig      `mapstructure:"app"`
	OSS      OSSConfig      `mapstructure:"oss"`
	Asset    AssetConfig    `mapstructure:"asset"`
	Client   ClientConfig   `mapstructure:"client"`
}

type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	Mode         string   `mapstructure:"mode"`
	AllowOrigins []string `mapstructure:"allow_origins"`
	RateLimit    float64  `mapstructure:"rate_limit"` // 每个IP每秒请求数
	RateBurst    int      `mapstructure:"rate_burst"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

// DSN gorm postgres 驱动使用的连接串
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode, c.TimeZone)
}

// URL golang-migrate 使用的连接串
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int64  `mapstructure:"expire"` // 小时
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
}

// Enabled 是否配置了 OSS
func (c OSSConfig) Enabled() bool {
	return c.Endpoint != "" && c.BucketName != ""
}

// AssetConfig 资源托管服务
type AssetConfig struct {
	Presets   []string `mapstructure:"presets"`
	LocalDir  string   `mapstructure:"local_dir"`
	PublicURL string   `mapstructure:"public_url"` // 本地存储时文件的访问前缀
	MaxSize   int64    `mapstructure:"max_size"`   // 字节
}

// HasPreset 上传预设是否合法
func (c AssetConfig) HasPreset(preset string) bool {
	for _, p := range c.Presets {
		if p == preset {
			return true
		}
	}
	return false
}

// ClientConfig 终端客户端
type ClientConfig struct {
	APIBaseURL   string        `mapstructure:"api_base_url"`
	AssetURL     string        `mapstructure:"asset_url"`
	UploadPreset string        `mapstructure:"upload_preset"`
	PageSize     int           `mapstructure:"page_size"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

var GlobalConfig Config

// Validate 验证服务端配置
func (c *Config) Validate() error {
	if c.JWT.Secret == "" || c.JWT.Secret == "your_super_secret_key" {
		return errors.New("please set a secure JWT secret in production")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret should be at least 32 characters")
	}

	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return errors.New("database configuration is incomplete")
	}

	if c.Redis.Addr == "" {
		return errors.New("redis address is required")
	}

	if len(c.Asset.Presets) == 0 {
		return errors.New("at least one asset upload preset is required")
	}
	if !c.OSS.Enabled() && c.Asset.LocalDir == "" {
		return errors.New("asset storage requires either OSS or a local directory")
	}

	return nil
}

// ValidateClient 验证客户端配置
func (c *Config) ValidateClient() error {
	if c.Client.APIBaseURL == "" {
		return errors.New("client api_base_url is required")
	}
	if c.Client.AssetURL == "" {
		return errors.New("client asset_url is required")
	}
	if c.Client.UploadPreset == "" {
		return errors.New("client upload_preset is required")
	}
	if c.Client.PageSize <= 0 {
		return errors.New("client page_size must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allow_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.rate_burst", 200)
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("jwt.expire", 24*30)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("asset.presets", []string{"feed_preset"})
	v.SetDefault("asset.local_dir", "./uploads")
	v.SetDefault("asset.public_url", "http://localhost:8080/assets/files")
	v.SetDefault("asset.max_size", 10<<20)
	v.SetDefault("client.api_base_url", "http://localhost:8080")
	v.SetDefault("client.asset_url", "http://localhost:8080/assets/upload")
	v.SetDefault("client.upload_preset", "feed_preset")
	v.SetDefault("client.page_size", 7)
	v.SetDefault("client.timeout", 10*time.Second)
}

// Load 读取配置文件与环境变量。
// file 为空时按 APP_ENV 在 ./configs 和当前目录下查找 config[.env].yaml
func Load(file string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		env := os.Getenv("APP_ENV")
		configName := "config"
		if env != "" && env != "dev" {
			configName = "config." + env
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	// SERVER_PORT -> server.port
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// 常用的部署变量
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		cfg.JWT.Secret = jwtSecret
	}

	return &cfg, nil
}

// LoadConfig 加载并验证服务端配置，写入 GlobalConfig
func LoadConfig(file string) {
	cfg, err := Load(file)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	GlobalConfig = *cfg

	log.Printf("Configuration loaded and validated successfully. Environment: %s", GlobalConfig.App.Env)
}
