package config

import "fmt"

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Database DatabaseConfig `mapstructure:"database"`
	Media    MediaConfig    `mapstructure:"media"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type TelegramConfig struct {
	Token        string  `mapstructure:"token"`        // fallback when the settings row has none
	APIBaseURL   string  `mapstructure:"api_base_url"` // override for tests
	PollTimeout  int     `mapstructure:"poll_timeout"` // seconds
	PollLimit    int     `mapstructure:"poll_limit"`
	AdminChatIDs []int64 `mapstructure:"admin_chat_ids"` // completion notifications
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address    string `mapstructure:"address"` // empty disables the session cache
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

type MediaConfig struct {
	Dir string `mapstructure:"dir"`
}

type AdminConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
}

type MetricsConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
