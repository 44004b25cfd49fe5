package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/order-inbox/internal/resilience"
	"github.com/sells-group/order-inbox/internal/submission"
)

// Config holds the full application configuration.
type Config struct {
	Log        LogConfig         `yaml:"log" mapstructure:"log"`
	Server     ServerConfig      `yaml:"server" mapstructure:"server"`
	Workflow   WorkflowConfig    `yaml:"workflow" mapstructure:"workflow"`
	SalesOrder submission.Config `yaml:"sales_order" mapstructure:"sales_order"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"required"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json console"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// WorkflowConfig configures the workflow runtime client.
type WorkflowConfig struct {
	BaseURL     string      `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	TimeoutSecs int         `yaml:"timeout_secs" mapstructure:"timeout_secs" validate:"gte=1"`
	RateLimit   float64     `yaml:"rate_limit" mapstructure:"rate_limit" validate:"gte=0"`
	Retry       RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// RetryConfig configures retries of transient runtime failures.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts" validate:"gte=1,lte=10"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms" validate:"gte=0"`
	MaxBackoffMs     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms" validate:"gte=0"`
}

// Policy converts the retry settings to a resilience policy.
func (r RetryConfig) Policy() resilience.Policy {
	return resilience.PolicyFromConfig(r.MaxAttempts, r.InitialBackoffMs, r.MaxBackoffMs)
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("INBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	so := submission.DefaultConfig()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("workflow.base_url", "")
	v.SetDefault("workflow.timeout_secs", 30)
	v.SetDefault("workflow.rate_limit", 0)
	v.SetDefault("workflow.retry.max_attempts", 3)
	v.SetDefault("workflow.retry.initial_backoff_ms", 250)
	v.SetDefault("workflow.retry.max_backoff_ms", 5000)
	v.SetDefault("sales_order.type", so.SalesOrderType)
	v.SetDefault("sales_order.organization", so.SalesOrganization)
	v.SetDefault("sales_order.distribution_channel", so.DistributionChannel)
	v.SetDefault("sales_order.division", so.OrganizationDivision)
	v.SetDefault("sales_order.po_source", string(so.POSource))

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. mode is "local" for the
// offline commands, "complete" for runtime round trips and "serve" for the
// HTTP server.
func (c *Config) Validate(mode string) error {
	var errs []string

	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return eris.Wrap(err, "config: validate")
		}
		for _, fe := range verrs {
			errs = append(errs, describe(fe))
		}
	}

	switch mode {
	case "local":
	case "complete":
		if c.Workflow.BaseURL == "" {
			errs = append(errs, "workflow.base_url is required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// describe renders a validation failure with the config key path.
func describe(fe validator.FieldError) string {
	key := keyPath(fe.StructNamespace())
	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", key, fe.Param())
	case "url":
		return key + " must be a URL"
	case "gte":
		return fmt.Sprintf("%s must be >= %s", key, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", key, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", key, fe.Tag())
	}
}

var keyNames = map[string]string{
	"Log":                  "log",
	"Level":                "level",
	"Format":               "format",
	"Workflow":             "workflow",
	"BaseURL":              "base_url",
	"TimeoutSecs":          "timeout_secs",
	"RateLimit":            "rate_limit",
	"Retry":                "retry",
	"MaxAttempts":          "max_attempts",
	"InitialBackoffMs":     "initial_backoff_ms",
	"MaxBackoffMs":         "max_backoff_ms",
	"SalesOrder":           "sales_order",
	"SalesOrderType":       "type",
	"SalesOrganization":    "organization",
	"DistributionChannel":  "distribution_channel",
	"OrganizationDivision": "division",
	"POSource":             "po_source",
}

func keyPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 0 && parts[0] == "Config" {
		parts = parts[1:]
	}
	for i, p := range parts {
		if k, ok := keyNames[p]; ok {
			parts[i] = k
		}
	}
	return strings.Join(parts, ".")
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
