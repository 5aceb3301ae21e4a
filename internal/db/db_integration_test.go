//go:build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Connect(ctx, dbURL)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to DB: %v", err)
	}
	require.NoError(t, db.Migrate(ctx))
	return db
}

func TestRecordCycle_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	kind := "test-" + uuid.NewString()[:8]
	started := time.Now().UTC().Truncate(time.Millisecond)
	id, err := db.RecordCycle(ctx, &Cycle{Kind: kind, StartedAt: started, Duration: 250 * time.Millisecond, Pairs: 3, Created: 1, Skipped: 2})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	cycles, err := db.ListRecentCycles(ctx, kind, 5)
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Equal(t, id, cycles[0].ID)
	assert.Equal(t, 250*time.Millisecond, cycles[0].Duration)
	assert.Equal(t, 2, cycles[0].Skipped)
	assert.Nil(t, cycles[0].Error)
}

func TestArchiveTranscript_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	id := uuid.NewString()
	require.NoError(t, db.ArchiveTranscript(ctx, id, 42, "Jane Doe", "Engineer", []byte(`{"id":"x"}`)))
	require.NoError(t, db.ArchiveTranscript(ctx, id, 42, "Jane Doe", "Engineer", []byte(`{"id":"y"}`)))

	got, err := db.GetTranscript(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.InterviewID)
	assert.Equal(t, 42, *got.InterviewID)
	assert.JSONEq(t, `{"id":"y"}`, string(got.Content))

	_, err = db.GetTranscript(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}
