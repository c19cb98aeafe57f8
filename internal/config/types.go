package config

import "time"

// AppConfig is the startup configuration. It is built once by Load and
// treated as read-only afterwards.
type AppConfig struct {
	Port            int              `yaml:"port" env:"PORT"`
	Env             string           `yaml:"env" env:"APP_ENV"`
	LogLevel        string           `yaml:"log_level" env:"LOG_LEVEL"`
	SiteURL         string           `yaml:"site_url" env:"PUBLIC_SITE_URL"`
	AllowedOrigins  []string         `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	MaintenanceMode bool             `yaml:"maintenance_mode" env:"MAINTENANCE_MODE"`
	Languages       []string         `yaml:"languages" env:"SITE_LANGUAGES" envSeparator:","`
	Version         string           `yaml:"version" env:"APP_VERSION"`
	Database        DatabaseConfig   `yaml:"database"`
	Redis           RedisConfig      `yaml:"redis"`
	Supabase        SupabaseConfig   `yaml:"supabase"`
	Mail            MailConfig       `yaml:"mail"`
	Storage         StorageConfig    `yaml:"storage"`
	Newsletter      NewsletterConfig `yaml:"newsletter"`
}

type DatabaseConfig struct {
	Driver   string            `yaml:"driver" env:"DB_DRIVER"`
	URL      string            `yaml:"url" env:"DATABASE_URL"`
	Host     string            `yaml:"host" env:"DB_HOST"`
	Port     int               `yaml:"port" env:"DB_PORT"`
	User     string            `yaml:"user" env:"DB_USER"`
	Password string            `yaml:"password" env:"DB_PASSWORD"`
	Name     string            `yaml:"name" env:"DB_NAME"`
	SSLMode  string            `yaml:"sslmode" env:"DB_SSLMODE"`
	Params   map[string]string `yaml:"params"`
}

type RedisConfig struct {
	URL string `yaml:"url" env:"REDIS_URL"`
}

type SupabaseConfig struct {
	URL            string   `yaml:"url" env:"SUPABASE_URL"`
	AnonKey        string   `yaml:"anon_key" env:"SUPABASE_ANON_KEY"`
	ServiceRoleKey string   `yaml:"service_role_key" env:"SUPABASE_SERVICE_ROLE_KEY"`
	JWTSecret      string   `yaml:"jwt_secret" env:"SUPABASE_JWT_SECRET"`
	AdminEmails    []string `yaml:"admin_emails" env:"ADMIN_EMAILS" envSeparator:","`
}

type MailConfig struct {
	Provider             string     `yaml:"provider" env:"MAIL_PROVIDER"`
	ResendAPIKey         string     `yaml:"resend_api_key" env:"RESEND_API_KEY"`
	PostmarkServerToken  string     `yaml:"postmark_server_token" env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string     `yaml:"postmark_account_token" env:"POSTMARK_ACCOUNT_TOKEN"`
	SMTP                 SMTPConfig `yaml:"smtp"`
	From                 string     `yaml:"from" env:"MAIL_FROM"`
	ReplyTo              string     `yaml:"reply_to" env:"MAIL_REPLY_TO"`
	SalesInbox           string     `yaml:"sales_inbox" env:"SALES_INBOX"`
	DevDir               string     `yaml:"dev_dir" env:"MAIL_DEV_DIR"`
}

type SMTPConfig struct {
	Host string `yaml:"host" env:"SMTP_HOST"`
	Port int    `yaml:"port" env:"SMTP_PORT"`
	User string `yaml:"user" env:"SMTP_USER"`
	Pass string `yaml:"pass" env:"SMTP_PASS"`
}

type StorageConfig struct {
	Endpoint        string            `yaml:"endpoint" env:"STORAGE_ENDPOINT"`
	Region          string            `yaml:"region" env:"STORAGE_REGION"`
	AccessKeyID     string            `yaml:"access_key_id" env:"STORAGE_ACCESS_KEY_ID"`
	SecretAccessKey string            `yaml:"secret_access_key" env:"STORAGE_SECRET_ACCESS_KEY"`
	Bucket          string            `yaml:"bucket" env:"STORAGE_BUCKET"`
	PublicBaseURL   string            `yaml:"public_base_url" env:"STORAGE_PUBLIC_BASE_URL"`
	CatalogBucket   string            `yaml:"catalog_bucket" env:"CATALOG_BUCKET"`
	CatalogKeys     map[string]string `yaml:"catalog_keys"`
	PresignTTL      time.Duration     `yaml:"presign_ttl" env:"STORAGE_PRESIGN_TTL"`
}

type NewsletterConfig struct {
	RotateUnsubscribeToken bool          `yaml:"rotate_unsubscribe_token" env:"NEWSLETTER_ROTATE_UNSUBSCRIBE_TOKEN"`
	PendingTTL             time.Duration `yaml:"pending_ttl" env:"NEWSLETTER_PENDING_TTL"`
}
