package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"vegetable_inventory/internal/db"
)

var dbSeq atomic.Int64

// OpenInMemoryDB opens a migrated in-memory SQLite database private to the calling test.
// The database is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	url := fmt.Sprintf("sqlite://file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	d, err := db.Open(url, log)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := d.DB()
	if err != nil {
		t.Fatalf("sql pool: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.Migrate(d); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return d
}
