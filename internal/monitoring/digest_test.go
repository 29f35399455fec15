package monitoring

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/mlutsenko/brewbook-be/internal/database"
	"github.com/mlutsenko/brewbook-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestNewDigestRejectsBadCron(t *testing.T) {
	db := newTestDB(t)
	activitySvc := services.NewActivityService(db, nil)

	_, err := NewDigest(db, activitySvc, "not a cron")
	assert.Error(t, err)

	d, err := NewDigest(db, activitySvc, "@daily")
	require.NoError(t, err)
	assert.NotNil(t, d)
}

func TestSnapshotRecordsCounts(t *testing.T) {
	db := newTestDB(t)
	activitySvc := services.NewActivityService(db, nil)

	userID := uuid.New().String()
	_, err := db.Exec(
		"INSERT INTO users (id, username, email, password_hash) VALUES (?, ?, ?, ?)",
		userID, "vasya", "vasya@x.com", "hash",
	)
	require.NoError(t, err)

	for _, title := range []string{"Ethiopia Yirgacheffe", "Kenya AA"} {
		_, err := db.Exec(
			"INSERT INTO sorts (id, title, user_id) VALUES (?, ?, ?)",
			uuid.New().String(), title, userID,
		)
		require.NoError(t, err)
	}

	d, err := NewDigest(db, activitySvc, "@daily")
	require.NoError(t, err)
	d.snapshot()

	activities, err := activitySvc.Recent(10)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "digest.snapshot", activities[0].Type)
	assert.Equal(t, "info", activities[0].Level)
	assert.Equal(t, "Community digest: 1 users, 2 sorts, 0 recipes", activities[0].Message)
}
