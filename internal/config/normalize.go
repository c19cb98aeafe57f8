package config

import (
	"strings"

	"github.com/soldertec/site/internal/pkg/i18n"
)

func normalize(cfg *AppConfig) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.SiteURL = strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/")
	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{cfg.SiteURL}
	}
	cfg.Languages = normalizeLanguages(cfg.Languages)

	cfg.Database = normalizeDatabaseConfig(cfg.Database)
	cfg.Redis.URL = strings.TrimSpace(cfg.Redis.URL)
	cfg.Supabase = normalizeSupabaseConfig(cfg.Supabase)
	cfg.Mail = normalizeMailConfig(cfg.Mail)
	cfg.Storage = normalizeStorageConfig(cfg.Storage, cfg.Supabase.URL)
}

func normalizeEnv(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", EnvProduction:
		return EnvProduction
	case EnvTest:
		return EnvTest
	case "", "dev", EnvDevelopment:
		return EnvDevelopment
	default:
		return strings.ToLower(strings.TrimSpace(env))
	}
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		if v := strings.TrimRight(strings.TrimSpace(origin), "/"); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func normalizeLanguages(langs []string) []string {
	seen := make(map[string]struct{}, len(langs))
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		v := strings.ToLower(strings.TrimSpace(l))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 && len(langs) == 0 {
		out = append(out, string(i18n.Default))
	}
	return out
}

func normalizeDatabaseConfig(cfg DatabaseConfig) DatabaseConfig {
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	cfg.URL = strings.TrimSpace(cfg.URL)
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.User = strings.TrimSpace(cfg.User)
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.SSLMode = strings.TrimSpace(cfg.SSLMode)

	switch cfg.Driver {
	case "", "postgresql", "pg":
		cfg.Driver = DriverPostgres
	}
	if cfg.Host == "" {
		cfg.Host = defaultDBHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultDBPort
		if cfg.Driver == DriverMySQL {
			cfg.Port = defaultMySQLPort
		}
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = defaultDBSSLMode
	}
	if cfg.Params != nil {
		cfg.Params = copyStringMap(cfg.Params)
	}
	return cfg
}

func normalizeSupabaseConfig(cfg SupabaseConfig) SupabaseConfig {
	cfg.URL = strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	cfg.AnonKey = strings.TrimSpace(cfg.AnonKey)
	cfg.ServiceRoleKey = strings.TrimSpace(cfg.ServiceRoleKey)
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	emails := make([]string, 0, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		if v := strings.ToLower(strings.TrimSpace(e)); v != "" {
			emails = append(emails, v)
		}
	}
	cfg.AdminEmails = emails
	return cfg
}

func normalizeMailConfig(cfg MailConfig) MailConfig {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.ResendAPIKey = strings.TrimSpace(cfg.ResendAPIKey)
	cfg.PostmarkServerToken = strings.TrimSpace(cfg.PostmarkServerToken)
	cfg.PostmarkAccountToken = strings.TrimSpace(cfg.PostmarkAccountToken)
	cfg.SMTP.Host = strings.TrimSpace(cfg.SMTP.Host)
	cfg.From = strings.TrimSpace(cfg.From)
	cfg.ReplyTo = strings.TrimSpace(cfg.ReplyTo)
	cfg.SalesInbox = strings.TrimSpace(cfg.SalesInbox)
	cfg.DevDir = ResolveRuntimePath(cfg.DevDir, defaultMailDevDir)

	if cfg.Provider == "" {
		switch {
		case cfg.ResendAPIKey != "":
			cfg.Provider = MailProviderResend
		case cfg.PostmarkServerToken != "":
			cfg.Provider = MailProviderPostmark
		case cfg.SMTP.Host != "":
			cfg.Provider = MailProviderSMTP
		default:
			cfg.Provider = MailProviderDev
		}
	}
	if cfg.From == "" {
		cfg.From = defaultMailFrom
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = defaultSMTPPort
	}
	return cfg
}

// Supabase exposes an S3-compatible endpoint under the project URL; it is
// derived when no explicit endpoint is configured.
func normalizeStorageConfig(cfg StorageConfig, supabaseURL string) StorageConfig {
	cfg.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	cfg.Region = strings.TrimSpace(cfg.Region)
	cfg.AccessKeyID = strings.TrimSpace(cfg.AccessKeyID)
	cfg.SecretAccessKey = strings.TrimSpace(cfg.SecretAccessKey)
	cfg.Bucket = strings.TrimSpace(cfg.Bucket)
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	cfg.CatalogBucket = strings.TrimSpace(cfg.CatalogBucket)

	if cfg.Region == "" {
		cfg.Region = defaultStorageRegion
	}
	if cfg.Bucket == "" {
		cfg.Bucket = defaultBucket
	}
	if cfg.CatalogBucket == "" {
		cfg.CatalogBucket = cfg.Bucket
	}
	if cfg.Endpoint == "" && supabaseURL != "" {
		cfg.Endpoint = supabaseURL + "/storage/v1/s3"
	}
	if cfg.PublicBaseURL == "" && supabaseURL != "" {
		cfg.PublicBaseURL = supabaseURL + "/storage/v1/object/public/" + cfg.Bucket
	}
	keys := make(map[string]string, len(cfg.CatalogKeys))
	for lang, key := range cfg.CatalogKeys {
		l := strings.ToLower(strings.TrimSpace(lang))
		k := strings.TrimLeft(strings.TrimSpace(key), "/")
		if l != "" && k != "" {
			keys[l] = k
		}
	}
	cfg.CatalogKeys = keys
	return cfg
}

func copyStringMap(input map[string]string) map[string]string {
	out := make(map[string]string, len(input))
	for k, v := range input {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		out[key] = strings.TrimSpace(v)
	}
	return out
}
