package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	neturl "net/url"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/soldertec/site/internal/pkg/i18n"
)

// Load builds the configuration from defaults, the YAML file at configPath,
// the .env file and the process environment, in that order of precedence
// (later wins). A missing file is only an error when the path was given
// explicitly.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decodeYAML(content, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	if err := godotenv.Load(DefaultDotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DefaultDotenvPath, err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	normalize(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func decodeYAML(content []byte, cfg *AppConfig) error {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	return decoder.Decode(cfg)
}

func applyEnv(cfg *AppConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	// aliases the hosted deployment uses
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("SUPABASE_DB_URL")
	}
	for lang, key := range map[string]string{"es": "CATALOG_KEY_ES", "en": "CATALOG_KEY_EN"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			if cfg.Storage.CatalogKeys == nil {
				cfg.Storage.CatalogKeys = map[string]string{}
			}
			cfg.Storage.CatalogKeys[lang] = v
		}
	}
	return nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:      defaultPort,
		Env:       defaultEnv,
		LogLevel:  defaultLogLevel,
		SiteURL:   defaultSiteURL,
		Languages: []string{string(i18n.Spanish), string(i18n.English)},
		Version:   "dev",
		Database: DatabaseConfig{
			Driver:   defaultDBDriver,
			Host:     defaultDBHost,
			Port:     defaultDBPort,
			User:     defaultDBUser,
			Password: defaultDBPassword,
			Name:     defaultDBName,
			SSLMode:  defaultDBSSLMode,
		},
		Mail: MailConfig{
			From:       defaultMailFrom,
			SalesInbox: defaultSalesInbox,
			DevDir:     defaultMailDevDir,
			SMTP:       SMTPConfig{Port: defaultSMTPPort},
		},
		Storage: StorageConfig{
			Region:        defaultStorageRegion,
			Bucket:        defaultBucket,
			CatalogBucket: defaultCatalogBucket,
			CatalogKeys: map[string]string{
				"es": defaultCatalogKeyES,
				"en": defaultCatalogKeyEN,
			},
			PresignTTL: defaultPresignTTL,
		},
		Newsletter: NewsletterConfig{PendingTTL: defaultPendingTTL},
	}
}

func (c *AppConfig) validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range 1-65535", c.Port))
	}
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		errs = append(errs, fmt.Errorf("env %q must be one of development, production, test", c.Env))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q must be one of debug, info, warn, error", c.LogLevel))
	}
	if u, err := neturl.Parse(c.SiteURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("site_url %q must be an absolute URL", c.SiteURL))
	}
	if len(c.Languages) == 0 {
		errs = append(errs, errors.New("languages must not be empty"))
	}
	for _, l := range c.Languages {
		if _, ok := i18n.ParseLang(l); !ok {
			errs = append(errs, fmt.Errorf("unsupported language %q", l))
		}
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL:
	default:
		errs = append(errs, fmt.Errorf("database.driver %q must be postgres or mysql", c.Database.Driver))
	}
	if c.Database.URL == "" && (c.Database.Port < 1 || c.Database.Port > 65535) {
		errs = append(errs, fmt.Errorf("database.port %d out of range 1-65535", c.Database.Port))
	}

	switch c.Mail.Provider {
	case MailProviderResend:
		if c.Mail.ResendAPIKey == "" {
			errs = append(errs, errors.New("mail.resend_api_key is required for the resend provider"))
		}
	case MailProviderPostmark:
		if c.Mail.PostmarkServerToken == "" {
			errs = append(errs, errors.New("mail.postmark_server_token is required for the postmark provider"))
		}
	case MailProviderSMTP:
		if c.Mail.SMTP.Host == "" {
			errs = append(errs, errors.New("mail.smtp.host is required for the smtp provider"))
		}
	case MailProviderDev:
		if c.IsProduction() {
			errs = append(errs, errors.New("mail.provider dev is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("mail.provider %q is not supported", c.Mail.Provider))
	}
	if c.Mail.SalesInbox == "" {
		errs = append(errs, errors.New("mail.sales_inbox is required"))
	}

	if c.Storage.PresignTTL <= 0 || c.Storage.PresignTTL > maxPresignTTL {
		errs = append(errs, fmt.Errorf("storage.presign_ttl %s must be between 1s and 168h", c.Storage.PresignTTL))
	}
	if c.Newsletter.PendingTTL < 0 {
		errs = append(errs, errors.New("newsletter.pending_ttl must not be negative"))
	}
	return errors.Join(errs...)
}

// IsDev reports whether the service runs outside production.
func (c *AppConfig) IsDev() bool {
	return c.Env != EnvProduction
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == EnvProduction
}

// SupportedLanguages returns the configured languages as i18n values.
func (c *AppConfig) SupportedLanguages() []i18n.Lang {
	out := make([]i18n.Lang, 0, len(c.Languages))
	for _, l := range c.Languages {
		if lang, ok := i18n.ParseLang(l); ok {
			out = append(out, lang)
		}
	}
	return out
}

// StorageEnabled reports whether blob storage credentials are present.
func (c *AppConfig) StorageEnabled() bool {
	return c.Storage.Endpoint != "" && c.Storage.AccessKeyID != "" && c.Storage.SecretAccessKey != ""
}

// AuthEnabled reports whether admin tokens can be verified.
func (c *AppConfig) AuthEnabled() bool {
	return c.Supabase.JWTSecret != ""
}
