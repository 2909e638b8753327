package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	S3       S3Config
	Email    EmailConfig
	WhatsApp WhatsAppConfig
	Invoice  InvoiceConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for rendered invoice documents.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// WhatsAppConfig holds Twilio WhatsApp delivery settings. An empty
// AccountSID degrades sending to wa.me share links.
type WhatsAppConfig struct {
	AccountSID  string `mapstructure:"account_sid"`
	AuthToken   string `mapstructure:"auth_token"`
	FromNumber  string `mapstructure:"from_number"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// InvoiceConfig holds invoice issuing settings: the platform seller
// identity used for topmate invoices, numbering, and upload limits.
type InvoiceConfig struct {
	TopmatePrefix  string `mapstructure:"topmate_prefix"`
	CompanyName    string `mapstructure:"company_name"`
	CompanyGSTIN   string `mapstructure:"company_gstin"`
	CompanyAddress string `mapstructure:"company_address"`
	CompanyPincode string `mapstructure:"company_pincode"`
	CompanyState   string `mapstructure:"company_state"`
	CompanyPhone   string `mapstructure:"company_phone"`
	CompanyEmail   string `mapstructure:"company_email"`
	DefaultGSTRate string `mapstructure:"default_gst_rate"`
	MaxUploadMB    int64  `mapstructure:"max_upload_mb"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the
// GSTBILL_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GSTBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "gstbill")
	v.SetDefault("db.password", "gstbill_secret")
	v.SetDefault("db.name", "gstbill_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "gstbill-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 604800)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@topmate.io")
	v.SetDefault("email.from_name", "Topmate Invoices")

	// WhatsApp defaults (unconfigured: share links instead of sends)
	v.SetDefault("whatsapp.account_sid", "")
	v.SetDefault("whatsapp.auth_token", "")
	v.SetDefault("whatsapp.from_number", "")
	v.SetDefault("whatsapp.timeout_secs", 15)

	// Invoice defaults
	v.SetDefault("invoice.topmate_prefix", "TM")
	v.SetDefault("invoice.company_name", "Topmate")
	v.SetDefault("invoice.company_gstin", "29AAAAA0000A1Z5")
	v.SetDefault("invoice.company_address", "Bengaluru, Karnataka")
	v.SetDefault("invoice.company_pincode", "560001")
	v.SetDefault("invoice.company_state", "KA")
	v.SetDefault("invoice.company_phone", "")
	v.SetDefault("invoice.company_email", "")
	v.SetDefault("invoice.default_gst_rate", "18.00")
	v.SetDefault("invoice.max_upload_mb", 5)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Viper reads list-valued env vars as comma-separated strings.
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}

	return &cfg, nil
}
