package store

import (
	"os"
	"testing"
)

// TestMySQLStore exercises MySQLStore against a real server reachable via
// FSMHDL_MYSQL_DSN. Skipped by default since it requires live
// infrastructure; CI environments that provision MySQL should set the
// variable to run it.
func TestMySQLStore(t *testing.T) {
	dsn := os.Getenv("FSMHDL_MYSQL_DSN")
	if dsn == "" {
		t.Skip("FSMHDL_MYSQL_DSN not set; skipping MySQL-backed store test")
	}

	storeTestSuite(t, func() Store {
		s, err := NewMySQLStore(dsn)
		if err != nil {
			t.Fatalf("NewMySQLStore failed: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
