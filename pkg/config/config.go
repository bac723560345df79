package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // 容器镜像可能不带时区数据

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// AppConfig 全局配置实例
var AppConfig *Config

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Session  SessionConfig  `yaml:"session"`
	JWT      JWTConfig      `yaml:"jwt"`
	MongoDB  MongoDBConfig  `yaml:"mongodb"`
	AMQP     AMQPConfig     `yaml:"amqp"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	Security SecurityConfig `yaml:"security"`
	Business BusinessConfig `yaml:"business"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port         string        `yaml:"port"`
	Mode         string        `yaml:"mode"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // mysql 或 postgres
	DSN             string        `yaml:"dsn"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	LogLevel        string        `yaml:"log_level"`
	LogDir          string        `yaml:"log_dir"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

// RedisConfig Redis配置，Addr为空时不启用
type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	PoolSize     int           `yaml:"pool_size"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// SessionConfig 会话配置
type SessionConfig struct {
	Name   string `yaml:"name"`
	Secret string `yaml:"secret"`
	MaxAge int    `yaml:"max_age"` // 秒
	Store  string `yaml:"store"`   // cookie 或 redis
}

// JWTConfig JWT配置
type JWTConfig struct {
	SigningKey string        `yaml:"signing_key"`
	Expiry     time.Duration `yaml:"expiry"`
	Issuer     string        `yaml:"issuer"`
}

// MongoDBConfig 导入审计日志存储，URI为空时不启用
type MongoDBConfig struct {
	URI             string `yaml:"uri"`
	Database        string `yaml:"database"`
	AuditCollection string `yaml:"audit_collection"`
}

// AMQPConfig 领域事件发布，URL为空时不启用
type AMQPConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// StorageConfig TOS对象存储配置，用于归档导入文件
type StorageConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	AccessKeySecret string `yaml:"access_key_secret"`
	BucketName      string `yaml:"bucket_name"`
	BaseURL         string `yaml:"base_url"`
	Timeout         int    `yaml:"timeout"` // 秒
}

// Enabled 存储配置是否完整
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != "" && s.AccessKeyID != "" && s.AccessKeySecret != "" && s.BucketName != ""
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // json 或 text
	Output     string `yaml:"output"` // stdout, file, both
	FilePath   string `yaml:"file_path"`
	MaxSize    int    `yaml:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // days
	Compress   bool   `yaml:"compress"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins  []string `yaml:"allowed_origins"`
	TrustedProxies  []string `yaml:"trusted_proxies"`
	RateLimit       int      `yaml:"rate_limit"` // 每分钟请求数
	EnableRateLimit bool     `yaml:"enable_rate_limit"`
	EnableCaptcha   bool     `yaml:"enable_captcha"`
	CaptchaLength   int      `yaml:"captcha_length"`
	CaptchaAlphabet string   `yaml:"captcha_alphabet"` // 为空时使用去掉易混字符的默认字符集

	// 首次启动时若没有 ADMIN 账号则用以下凭据创建
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`
}

// BusinessConfig 业务配置
type BusinessConfig struct {
	TimeZone string `yaml:"time_zone"` // 月份及日期边界使用的参考时区
}

// Location 加载参考时区
func (b BusinessConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.TimeZone)
}

// InitConfig 初始化配置
func InitConfig() error {
	if err := loadEnv(); err != nil {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	config := Default()

	if err := loadFromFile(config); err != nil {
		log.Printf("Warning: failed to load config file: %v", err)
	}

	loadFromEnv(config)

	if err := Validate(config); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	AppConfig = config
	return nil
}

// loadEnv 加载环境变量文件
func loadEnv() error {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFiles := []string{
		".env",
		fmt.Sprintf(".env.%s", env),
		".env.local",
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			if err := godotenv.Overload(file); err != nil {
				return err
			}
		}
	}

	return nil
}

// Default 返回带默认值的配置
func Default() *Config {
	config := &Config{}

	config.Server.Port = "8801"
	config.Server.Mode = "debug"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second

	config.Database.Driver = "mysql"
	config.Database.MaxIdleConns = 10
	config.Database.MaxOpenConns = 100
	config.Database.ConnMaxLifetime = time.Hour
	config.Database.LogLevel = "warn"
	config.Database.LogDir = "gormlog"

	config.Redis.PoolSize = 10
	config.Redis.DialTimeout = 5 * time.Second
	config.Redis.ReadTimeout = 3 * time.Second
	config.Redis.WriteTimeout = 3 * time.Second

	config.Session.Name = "order_admin_session"
	config.Session.MaxAge = 7 * 24 * 3600
	config.Session.Store = "cookie"

	config.JWT.Expiry = 24 * time.Hour
	config.JWT.Issuer = "order-admin"

	config.MongoDB.Database = "order_admin"
	config.MongoDB.AuditCollection = "import_audit"

	config.AMQP.Exchange = "order_admin.events"

	config.Storage.Timeout = 30

	config.Log.Level = "info"
	config.Log.Format = "json"
	config.Log.Output = "stdout"
	config.Log.FilePath = "logs/app.log"
	config.Log.MaxSize = 100
	config.Log.MaxBackups = 7
	config.Log.MaxAge = 30
	config.Log.Compress = true

	config.Security.RateLimit = 1000
	config.Security.EnableRateLimit = true
	config.Security.CaptchaLength = 4

	config.Business.TimeZone = "Asia/Shanghai"

	return config
}

// loadFromFile 从配置文件加载
func loadFromFile(config *Config) error {
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config/config.yaml"
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, config)
}

// loadFromEnv 从环境变量覆盖配置
func loadFromEnv(config *Config) {
	setString(&config.Server.Port, "SERVER_PORT", "PORT")
	setString(&config.Server.Mode, "GIN_MODE")

	setString(&config.Database.Driver, "DB_DRIVER")
	setString(&config.Database.DSN, "DB_DSN", "MYSQL_DSN")
	setInt(&config.Database.MaxOpenConns, "DB_MAX_OPEN_CONNS")
	setInt(&config.Database.MaxIdleConns, "DB_MAX_IDLE_CONNS")
	setString(&config.Database.LogLevel, "DB_LOG_LEVEL")
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		config.Database.AutoMigrate, _ = strconv.ParseBool(v)
	}

	setString(&config.Redis.Addr, "REDIS_ADDR")
	setString(&config.Redis.Password, "REDIS_PASSWORD")
	setInt(&config.Redis.DB, "REDIS_DB")

	setString(&config.Session.Secret, "SESSION_SECRET")
	setString(&config.Session.Store, "SESSION_STORE")

	setString(&config.JWT.SigningKey, "JWT_SIGNING_KEY")

	setString(&config.MongoDB.URI, "MONGODB_URI")
	setString(&config.AMQP.URL, "AMQP_URL")

	setString(&config.Storage.Endpoint, "TOS_ENDPOINT")
	setString(&config.Storage.Region, "TOS_REGION")
	setString(&config.Storage.AccessKeyID, "TOS_ACCESS_KEY")
	setString(&config.Storage.AccessKeySecret, "TOS_SECRET_KEY")
	setString(&config.Storage.BucketName, "TOS_BUCKET")
	setString(&config.Storage.BaseURL, "TOS_BASE_URL")

	setString(&config.Log.Level, "LOG_LEVEL")
	setString(&config.Log.Format, "LOG_FORMAT")
	setString(&config.Log.Output, "LOG_OUTPUT")

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.Security.AllowedOrigins = nil
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				config.Security.AllowedOrigins = append(config.Security.AllowedOrigins, origin)
			}
		}
	}
	setString(&config.Security.AdminUsername, "ADMIN_USERNAME")
	setString(&config.Security.AdminPassword, "ADMIN_PASSWORD")
	if v := os.Getenv("ENABLE_CAPTCHA"); v != "" {
		config.Security.EnableCaptcha, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CAPTCHA_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.Security.CaptchaLength = n
		}
	}
	setString(&config.Security.CaptchaAlphabet, "CAPTCHA_ALPHABET")

	setString(&config.Business.TimeZone, "BUSINESS_TIME_ZONE", "TZ_REFERENCE")
}

// setString 依次读取环境变量，第一个非空值生效
func setString(dst *string, keys ...string) {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			*dst = v
			return
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate 验证配置
func Validate(config *Config) error {
	if config.Database.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}

	switch config.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %s", config.Database.Driver)
	}

	if _, err := strconv.Atoi(strings.TrimPrefix(config.Server.Port, ":")); err != nil {
		return fmt.Errorf("invalid server port: %s", config.Server.Port)
	}

	switch config.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server mode: %s", config.Server.Mode)
	}

	if _, err := config.Business.Location(); err != nil {
		return fmt.Errorf("invalid business time zone %q: %w", config.Business.TimeZone, err)
	}

	if config.Server.Mode == "release" {
		if config.Session.Secret == "" {
			return fmt.Errorf("session secret is required in release mode")
		}
		if config.JWT.SigningKey == "" {
			return fmt.Errorf("JWT signing key is required in release mode")
		}
	}

	switch config.Session.Store {
	case "cookie":
	case "redis":
		if config.Redis.Addr == "" {
			return fmt.Errorf("session store redis requires redis.addr")
		}
	default:
		return fmt.Errorf("invalid session store: %s", config.Session.Store)
	}

	return nil
}

// GetConfig 获取配置实例
func GetConfig() *Config {
	if AppConfig == nil {
		log.Fatal("config not initialized, call InitConfig() first")
	}
	return AppConfig
}

// IsProduction 判断是否为生产环境
func IsProduction() bool {
	return AppConfig != nil && AppConfig.Server.Mode == "release"
}

// IsDevelopment 判断是否为开发环境
func IsDevelopment() bool {
	return AppConfig != nil && AppConfig.Server.Mode == "debug"
}
