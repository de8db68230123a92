package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Identity IdentityConfig `toml:"identity"`
	Mailer   MailerConfig   `toml:"mailer"`
	Auth     AuthConfig     `toml:"auth"`
	Policies PoliciesConfig `toml:"policies"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN собирает строку подключения. Часовой пояс сессии фиксируется на
// Лиму: выражения DATE(starts_at) в запросах доступности и дневных
// лимитов вычисляются в зоне сессии, и без этого параметра вечерняя
// резервация на сервере с TimeZone=UTC попадала бы на чужую
// гражданскую дату.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s timezone=America/Lima",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// IdentityConfig настройки клиента проверки DNI
type IdentityConfig struct {
	URL     string `toml:"url"`
	Token   string `toml:"token"`   // пустой токен = проверка выключена
	Timeout int    `toml:"timeout"` // секунды
}

// MailerConfig настройки клиента отправки почты
type MailerConfig struct {
	URL     string `toml:"url"`
	APIKey  string `toml:"api_key"` // пустой ключ = отправка выключена
	Sender  string `toml:"sender"`
	Timeout int    `toml:"timeout"` // секунды
}

// AuthConfig настройки выпуска токенов и восстановления пароля
type AuthConfig struct {
	Secret             string `toml:"secret"`
	TokenExpiryMinutes int    `toml:"token_expiry_minutes"`
	OTPExpiryMinutes   int    `toml:"otp_expiry_minutes"`
}

// PoliciesConfig бизнес-политики движка резерваций.
// Нулевые значения заменяются дефолтами из domain.
type PoliciesConfig struct {
	GraceBeforeMinutes int `toml:"grace_before_minutes"`
	ToleranceMinutes   int `toml:"tolerance_minutes"`
	MaxLoanDays        int `toml:"max_loan_days"`
	MaxActiveLoans     int `toml:"max_active_loans"`
	MaxRoomsPerDay     int `toml:"max_rooms_per_day"`
	StrikeLimit        int `toml:"strike_limit"`
	BanDays            int `toml:"ban_days"`
	CancelWindowHours  int `toml:"cancel_window_hours"`
}

// Load читает конфигурацию из toml-файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}
	return &cfg, nil
}

// Policy собирает domain.Policy, подставляя дефолты вместо нулевых значений
func (c *Config) Policy() domain.Policy {
	p := domain.DefaultPolicy()

	if v := c.Policies.GraceBeforeMinutes; v > 0 {
		p.GraceBefore = time.Duration(v) * time.Minute
	}
	if v := c.Policies.ToleranceMinutes; v > 0 {
		p.LateTolerance = time.Duration(v) * time.Minute
	}
	if v := c.Policies.MaxLoanDays; v > 0 {
		p.MaxLoanDays = v
	}
	if v := c.Policies.MaxActiveLoans; v > 0 {
		p.MaxActiveLoans = v
	}
	if v := c.Policies.MaxRoomsPerDay; v > 0 {
		p.MaxRoomsPerDay = v
	}
	if v := c.Policies.StrikeLimit; v > 0 {
		p.StrikeLimit = v
	}
	if v := c.Policies.BanDays; v > 0 {
		p.BanDuration = time.Duration(v) * 24 * time.Hour
	}
	if v := c.Policies.CancelWindowHours; v > 0 {
		p.CancelWindow = time.Duration(v) * time.Hour
	}

	return p
}
