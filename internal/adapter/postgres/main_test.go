package postgres_test

import (
	"os"
	"testing"

	"github.com/Temutjin2k/bus-fare-terminal/testutil"
)

// TestMain applies the migrations once before the repository tests when a
// test database is configured.
func TestMain(m *testing.M) {
	os.Exit(testutil.MigrateMain(m))
}
