package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/portfolio/pkg"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

const (
	MediaBackendS3   = "s3"
	MediaBackendDisk = "disk"

	minJWTSecretLen = 32
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	AllowedOrigins []string `toml:"allowed_origins"`

	// auth
	TokenTTL                    Duration `toml:"token_ttl"`
	TokenIssuer                 string   `toml:"token_issuer"`
	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_allowed_per_min"`

	ProjectsCacheTTL Duration `toml:"projects_cache_ttl"`

	// media
	MediaBackend    string `toml:"media_backend"`
	MediaFolder     string `toml:"media_folder"`
	MediaDiskRoot   string `toml:"media_disk_root"`
	MediaBaseURL    string `toml:"media_base_url"`
	S3Bucket        string `toml:"s3_bucket"`
	S3Region        string `toml:"s3_region"`
	S3Endpoint      string `toml:"s3_endpoint"`
	S3UsePathStyle  bool   `toml:"s3_use_path_style"`
	MaxUploadSizeMB int64  `toml:"max_upload_size_mb"`

	// mail
	SMTPHost string `toml:"smtp_host"`
	SMTPPort int    `toml:"smtp_port"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing", env)
	}
	return cfg, nil
}

// Load reads the TOML config file and returns the section for the given env
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.Environment = strings.ToLower(env)
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5000
	}
	if c.TokenTTL.Duration == 0 {
		c.TokenTTL.Duration = 7 * 24 * time.Hour
	}
	if c.TokenIssuer == "" {
		c.TokenIssuer = "portfolio"
	}
	if c.LoginRateLimitAllowedPerMin == 0 {
		c.LoginRateLimitAllowedPerMin = 15
	}
	if c.ProjectsCacheTTL.Duration == 0 {
		c.ProjectsCacheTTL.Duration = time.Minute
	}
	if c.MediaBackend == "" {
		c.MediaBackend = MediaBackendS3
	}
	if c.MediaFolder == "" {
		c.MediaFolder = "portfolio-projects"
	}
	if c.MaxUploadSizeMB == 0 {
		c.MaxUploadSizeMB = 5
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = 587
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	switch c.MediaBackend {
	case MediaBackendS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("s3_bucket not set"))
		}
	case MediaBackendDisk:
		if c.MediaDiskRoot == "" {
			errs = append(errs, errors.New("media_disk_root not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown media backend: %s", c.MediaBackend))
	}
	if c.SMTPHost == "" {
		errs = append(errs, errors.New("smtp_host not set"))
	}
	return errors.Join(errs...)
}

func (c *Config) MaxUploadSize() int64 {
	return c.MaxUploadSizeMB << 20
}

// Secrets are never put in the config file, only in the process env (or a local .env)
type Secrets struct {
	JWTSecret         string `env:"PORTFOLIO_JWT_SECRET, required"`
	AdminEmail        string `env:"PORTFOLIO_ADMIN_EMAIL, required"`
	AdminPasswordHash string `env:"PORTFOLIO_ADMIN_PASSWORD_HASH, required"`
	DatabaseURL       string `env:"PORTFOLIO_DATABASE_URL, required"`
	RedisPassword     string `env:"PORTFOLIO_REDIS_PASS"`

	SMTPUser string `env:"PORTFOLIO_SMTP_USER, required"`
	SMTPPass string `env:"PORTFOLIO_SMTP_PASS, required"`
	MailTo   string `env:"PORTFOLIO_MAIL_TO, required"`

	S3AccessKeyID     string `env:"PORTFOLIO_S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"PORTFOLIO_S3_SECRET_ACCESS_KEY"`

	SentryDSN string `env:"SENTRY_DSN"`
}

// LoadSecrets reads secrets from the given lookuper (envconfig.OsLookuper() in main)
// and fails if anything the server needs for cfg is missing
func LoadSecrets(ctx context.Context, cfg *Config, lookuper envconfig.Lookuper) (*Secrets, error) {
	var secrets Secrets
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &secrets,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}

	if len(secrets.JWTSecret) < minJWTSecretLen {
		return nil, fmt.Errorf("PORTFOLIO_JWT_SECRET must be at least %d bytes long", minJWTSecretLen)
	}
	if !pkg.IsPasswordHash(secrets.AdminPasswordHash) {
		return nil, errors.New("PORTFOLIO_ADMIN_PASSWORD_HASH is not a bcrypt hash, see: admin hash-password")
	}
	if cfg.MediaBackend == MediaBackendS3 && (secrets.S3AccessKeyID == "" || secrets.S3SecretAccessKey == "") {
		return nil, errors.New("s3 media backend needs PORTFOLIO_S3_ACCESS_KEY_ID and PORTFOLIO_S3_SECRET_ACCESS_KEY")
	}
	if cfg.SentryEnabled && secrets.SentryDSN == "" {
		return nil, errors.New("sentry enabled, but SENTRY_DSN not set")
	}

	return &secrets, nil
}

// Duration lets TOML hold values like "168h"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}
