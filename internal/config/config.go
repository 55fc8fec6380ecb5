package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Bot       BotConfig
	Admin     AdminConfig     `mapstructure:"admin"`
	Redis     RedisConfig     `mapstructure:"redis"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Path string
}

type BotConfig struct {
	Token       string `mapstructure:"token"`
	PollTimeout int    `mapstructure:"poll_timeout"`
}

// AdminConfig 管理员配置：ID 白名单、通用密码和按 ID 的独立凭据
type AdminConfig struct {
	IDs           string `mapstructure:"ids"`
	PanelPassword string `mapstructure:"panel_password"`
	Credentials   string `mapstructure:"credentials"`
	WebAppURL     string `mapstructure:"webapp_url"`
}

type RedisConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// AdminIDSet 解析 "id,id,id" 形式的管理员白名单，凭据中的 ID 也自动加入
func (c *AdminConfig) AdminIDSet() map[int64]bool {
	ids := make(map[int64]bool)
	for _, chunk := range strings.Split(c.IDs, ",") {
		value := strings.TrimSpace(chunk)
		if value == "" {
			continue
		}
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		ids[id] = true
	}
	for id := range c.CredentialMap() {
		ids[id] = true
	}
	return ids
}

// CredentialMap 解析 "id:password,id:password" 形式的独立凭据
func (c *AdminConfig) CredentialMap() map[int64]string {
	credentials := make(map[int64]string)
	for _, chunk := range strings.Split(c.Credentials, ",") {
		pair := strings.TrimSpace(chunk)
		if pair == "" || !strings.Contains(pair, ":") {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		idPart := strings.TrimSpace(parts[0])
		password := strings.TrimSpace(parts[1])
		if idPart == "" || password == "" {
			continue
		}
		id, err := strconv.ParseInt(idPart, 10, 64)
		if err != nil {
			continue
		}
		credentials[id] = password
	}
	return credentials
}

func (c *AdminConfig) IsAdmin(userID int64) bool {
	return c.AdminIDSet()[userID]
}

func (c *AdminConfig) HasPanel() bool {
	return strings.TrimSpace(c.WebAppURL) != ""
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("ECOSTEP")
	viper.AutomaticEnv()

	// Bot
	viper.BindEnv("bot.token", "ECOSTEP_BOT_TOKEN")

	// Admin
	viper.BindEnv("admin.ids", "ECOSTEP_ADMIN_IDS")
	viper.BindEnv("admin.panel_password", "ECOSTEP_ADMIN_PANEL_PASSWORD")
	viper.BindEnv("admin.credentials", "ECOSTEP_ADMIN_CREDENTIALS")
	viper.BindEnv("admin.webapp_url", "ECOSTEP_ADMIN_WEBAPP_URL")

	// Database
	viper.BindEnv("database.path", "ECOSTEP_DATABASE_PATH")

	// Redis
	viper.BindEnv("redis.host", "ECOSTEP_REDIS_HOST")
	viper.BindEnv("redis.port", "ECOSTEP_REDIS_PORT")
	viper.BindEnv("redis.password", "ECOSTEP_REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.port", "ECOSTEP_SERVER_PORT")
	viper.BindEnv("server.mode", "ECOSTEP_SERVER_MODE")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is not configured (ECOSTEP_BOT_TOKEN)")
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "ecostep.db"
	}
	if cfg.Bot.PollTimeout <= 0 {
		cfg.Bot.PollTimeout = 10
	}

	return &cfg, nil
}
