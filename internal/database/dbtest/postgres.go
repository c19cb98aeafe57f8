//go:build integration

package dbtest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/soldertec/site/internal/config"
	"github.com/soldertec/site/internal/database"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// Postgres returns a migrated connection to a shared PostgreSQL container
// started once per test binary. Every table is truncated when t ends.
func Postgres(t *testing.T) *gorm.DB {
	t.Helper()

	once.Do(func() {
		sharedDSN, initErr = startPostgres()
	})
	if initErr != nil {
		t.Fatalf("dbtest: start postgres: %v", initErr)
	}

	db, err := database.Open(config.DatabaseConfig{Driver: config.DriverPostgres, URL: sharedDSN}, logger.Silent)
	if err != nil {
		t.Fatalf("dbtest: open postgres: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("dbtest: migrate: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Exec("TRUNCATE newsletter_subscribers, post_tags, post_contents, posts, tags, categories, catalog_requests CASCADE").Error
		_ = database.Close(db)
	})
	return db
}

func startPostgres() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "soldertec",
				"POSTGRES_PASSWORD": "soldertec",
				"POSTGRES_DB":       "soldertec",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("mapped port: %w", err)
	}
	return fmt.Sprintf("postgres://soldertec:soldertec@%s:%s/soldertec?sslmode=disable", host, port.Port()), nil
}
