package resume

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resumeforge/internal/database"
)

type recordedInvalidation struct {
	userID string
	views  []View
}

type recordingInvalidator struct {
	mu    sync.Mutex
	calls []recordedInvalidation
}

func (r *recordingInvalidator) Invalidate(_ context.Context, userID string, views ...View) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedInvalidation{userID: userID, views: append([]View(nil), views...)})
	return nil
}

func (r *recordingInvalidator) last() recordedInvalidation {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return recordedInvalidation{}
	}
	return r.calls[len(r.calls)-1]
}

func (r *recordingInvalidator) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

type fixture struct {
	store       *database.Store
	db          *gorm.DB
	invalidator *recordingInvalidator
	svc         *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	store := database.NewStore(db)
	inv := &recordingInvalidator{}
	svc := NewService(store, StaticIdentity("alice"), inv, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &fixture{store: store, db: db, invalidator: inv, svc: svc}
}

func (f *fixture) as(userID string) *Service {
	return f.svc.WithIdentity(StaticIdentity(userID))
}

func ptr[T any](v T) *T { return &v }

// clockAt 让 service 的时间从 start 开始每次调用前进一秒。
func clockAt(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}
