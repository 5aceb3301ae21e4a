package db

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchemaDefinesTables(t *testing.T) {
	assert.True(t, strings.Contains(schemaSQL, "CREATE TABLE IF NOT EXISTS sync_cycles"))
	assert.True(t, strings.Contains(schemaSQL, "CREATE TABLE IF NOT EXISTS transcripts"))
}

func TestCycleKinds(t *testing.T) {
	for _, kind := range []string{KindReconcile, KindRank, KindShortlist} {
		assert.NotEmpty(t, kind)
	}
}

func TestMsToDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, msToDuration(1500))
}

func TestClose_NilPool(t *testing.T) {
	var db DB
	assert.NotPanics(t, db.Close)
}
