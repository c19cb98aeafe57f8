//go:build integration

package newsletter

import (
	"testing"

	"github.com/soldertec/site/internal/database/dbtest"
)

func TestGormStoreContractPostgres(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store { return NewGormStore(dbtest.Postgres(t)) })
}
