package dbtest

import (
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
)

const envTestDSN = "PG_TEST_DSN"

// Connect opens the database named by PG_TEST_DSN, applies the given
// migration files and closes the connection when the test ends. The test is
// skipped when the variable is not set.
func Connect(t *testing.T, migrations ...string) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv(envTestDSN)
	if dsn == "" {
		t.Skipf("%s is not set", envTestDSN)
	}

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Fatalf("sqlx.Connect: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	if err = MigrateFromFile(db, migrations...); err != nil {
		t.Fatalf("MigrateFromFile: %v", err)
	}

	return db
}
