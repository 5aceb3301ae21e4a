package interviews

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-sync/internal/types"
)

func TestCorrectRanks(t *testing.T) {
	store := newFakeStore()
	store.tables["interviews"] = append(store.tables["interviews"],
		interviewRecord(1, "a", types.StatusComplete, 3, "good.pdf"),
		interviewRecord(2, "b", types.StatusComplete, 5, "good.pdf"),
		interviewRecord(3, "c", types.StatusReady, 0, "good.pdf"),
		interviewRecord(4, "d", types.StatusComplete, 2, "other.pdf"),
	)
	r := newTestReconciler(store, NewAllowList("good.pdf"))

	result, err := r.CorrectRanks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Checked)
	assert.Equal(t, []int{1}, result.Promoted)
	require.Len(t, store.updates, 1)
	assert.Equal(t, types.RankMax, store.updates[0]["Interview Rank"])

	again, err := r.CorrectRanks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, again.Promoted)
	assert.Len(t, store.updates, 1)
}

func TestCorrectRanks_NilPolicy(t *testing.T) {
	store := newFakeStore()
	store.tables["interviews"] = append(store.tables["interviews"],
		interviewRecord(1, "a", types.StatusComplete, 3, "good.pdf"))
	r := newTestReconciler(store, nil)

	result, err := r.CorrectRanks(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Checked)
	assert.Empty(t, store.updates)
}

func TestCorrectRanks_PolicyFunc(t *testing.T) {
	store := newFakeStore()
	store.tables["interviews"] = append(store.tables["interviews"],
		interviewRecord(1, "a", types.StatusComplete, 0, ""))
	r := newTestReconciler(store, RankPolicyFunc(func(iv types.Interview) bool { return iv.ID == 1 }))

	result, err := r.CorrectRanks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, result.Promoted)
}

func TestLoadAllowList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allow.txt")
	require.NoError(t, os.WriteFile(path, []byte("# shortlisted\n a.pdf \n\nb.pdf\n"), 0644))

	list, err := LoadAllowList(path)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.True(t, list.Promote(types.Interview{CVFilename: "a.pdf"}))
	assert.False(t, list.Promote(types.Interview{CVFilename: "c.pdf"}))

	_, err = LoadAllowList(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
