// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Assignment    AssignmentConfig        `mapstructure:"assignment"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	JobReports    JobReportConfig         `mapstructure:"job_reports"`
	Salary        SalaryConfig            `mapstructure:"salary"`
	Revalidation  RevalidationConfig      `mapstructure:"revalidation"`
	Integrations  IntegrationConfig       `mapstructure:"integrations"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
	Logging       LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	HTTPAddress string `mapstructure:"http_address"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
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
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// GetURL returns the URL form used by the migration driver.
func (p PostgresConfig) GetURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Domain Configuration Sections ---

// AssignmentConfig holds the orchestrator policy knobs.
type AssignmentConfig struct {
	AllowReassign   bool   `mapstructure:"allow_reassign"`
	DefaultPriority string `mapstructure:"default_priority"`
	DefaultType     string `mapstructure:"default_type"`
}

// NotificationConfig holds dispatcher and channel settings.
type NotificationConfig struct {
	DefaultCountryCode string `mapstructure:"default_country_code"`
	QueueSize          int    `mapstructure:"queue_size"`
	Workers            int    `mapstructure:"workers"`
	DeliveryTimeout    int    `mapstructure:"delivery_timeout"` // milliseconds

	WhatsApp struct {
		Enabled     bool   `mapstructure:"enabled"`
		BaseURL     string `mapstructure:"base_url"`
		APIToken    string `mapstructure:"api_token"`
		PhoneNumber string `mapstructure:"phone_number_id"`
		Timeout     int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"whatsapp"`

	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`

	SMS struct {
		Enabled  bool   `mapstructure:"enabled"`
		SenderID string `mapstructure:"sender_id"`
	} `mapstructure:"sms"`

	Reminders struct {
		LeadMinutes   int `mapstructure:"lead_minutes"`
		WindowMinutes int `mapstructure:"window_minutes"`
	} `mapstructure:"reminders"`
}

// JobReportConfig sets the zone whose calendar day a report is filed under.
type JobReportConfig struct {
	Timezone string `mapstructure:"timezone"`
}

func (c JobReportConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("job_reports.timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SalaryConfig holds rate cache settings.
type SalaryConfig struct {
	RateCacheTTL int `mapstructure:"rate_cache_ttl"` // seconds
}

// RevalidationConfig selects which cached-view sinks receive change signals.
type RevalidationConfig struct {
	Redis struct {
		Enabled bool   `mapstructure:"enabled"`
		Channel string `mapstructure:"channel"`
	} `mapstructure:"redis"`
	Search struct {
		Enabled bool   `mapstructure:"enabled"`
		Index   string `mapstructure:"index"`
	} `mapstructure:"search"`
	Kafka struct {
		Enabled bool     `mapstructure:"enabled"`
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`
}

// IntegrationConfig holds settings for AWS services.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// ObservabilityConfig holds tracing exporter settings.
type ObservabilityConfig struct {
	ServiceName  string  `mapstructure:"service_name"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
