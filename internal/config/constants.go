package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	// DefaultDotenvPath is loaded before the environment overlay when present.
	DefaultDotenvPath = ".env"

	defaultPort     = 3000
	defaultEnv      = EnvDevelopment
	defaultLogLevel = "info"
	defaultSiteURL  = "http://localhost:5173"

	defaultDBDriver   = DriverPostgres
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 5432
	defaultDBUser     = "postgres"
	defaultDBPassword = "postgres"
	defaultDBName     = "postgres"
	defaultDBSSLMode  = "disable"
	defaultMySQLPort  = 3306

	defaultMailFrom   = "Soldertec <no-reply@soldertec.mx>"
	defaultSalesInbox = "ventas@soldertec.mx"
	defaultSMTPPort   = 587
	defaultMailDevDir = "tmp/mail"

	defaultStorageRegion = "us-east-1"
	defaultBucket        = "blog-images"
	defaultCatalogBucket = "catalogs"
	defaultCatalogKeyES  = "catalogo-soldertec-es.pdf"
	defaultCatalogKeyEN  = "catalog-soldertec-en.pdf"
	defaultPresignTTL    = 24 * time.Hour

	defaultPendingTTL = 30 * 24 * time.Hour
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

const (
	MailProviderResend   = "resend"
	MailProviderPostmark = "postmark"
	MailProviderSMTP     = "smtp"
	MailProviderDev      = "dev"
)

// S3 presigned URLs cannot outlive seven days.
const maxPresignTTL = 7 * 24 * time.Hour
