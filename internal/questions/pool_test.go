package questions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeQuestions(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewPool_LoadsFile(t *testing.T) {
	path := writeQuestions(t, "Q1\n\n  Q2  \nQ1\nQ3\n")

	pool, err := NewPool(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Q1", "Q2", "Q3"}, pool.Sample(10))
}

func TestNewPool_DefaultQuestions(t *testing.T) {
	pool, err := NewPool("")
	require.NoError(t, err)
	assert.Equal(t, len(defaultQuestions), pool.Len())
}

func TestNewPool_MissingFile(t *testing.T) {
	_, err := NewPool("/nonexistent/questions.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read question file")
}

func TestReload_KeepsPreviousOnError(t *testing.T) {
	path := writeQuestions(t, "Q1\nQ2\n")
	pool, err := NewPool(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0644))
	err = pool.Reload()
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"Q1", "Q2"}, pool.Sample(10))

	require.NoError(t, os.WriteFile(path, []byte("Q9\n"), 0644))
	require.NoError(t, pool.Reload())
	assert.Equal(t, []string{"Q9"}, pool.Sample(10))
}

func TestSample_SizeAndUniqueness(t *testing.T) {
	all := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	pool := NewStaticPool(all, 42)

	for range 20 {
		got := pool.Sample(DefaultCount)
		require.Len(t, got, DefaultCount)

		seen := map[string]bool{}
		for _, q := range got {
			assert.False(t, seen[q], "duplicate question %q", q)
			seen[q] = true
			assert.Contains(t, all, q)
		}
	}
}

func TestSample_SmallPool(t *testing.T) {
	pool := NewStaticPool([]string{"a", "b", "c"}, 1)
	got := pool.Sample(6)
	assert.Len(t, got, 3)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, got)
}

func TestSample_Empty(t *testing.T) {
	pool := NewStaticPool(nil, 1)
	assert.Empty(t, pool.Sample(6))
	assert.Empty(t, NewStaticPool([]string{"a"}, 1).Sample(0))
}

func TestFormat(t *testing.T) {
	got := Format([]string{"Why us?", "Why now?"})
	assert.Equal(t, "1. Why us?\n2. Why now?", got)
	assert.Equal(t, "", Format(nil))
}

func TestFormat_SampledListIsOneIndexed(t *testing.T) {
	pool := NewStaticPool([]string{"a", "b", "c", "d", "e", "f", "g"}, 7)
	lines := strings.Split(Format(pool.Sample(6)), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "1. "))
	assert.True(t, strings.HasPrefix(lines[5], "6. "))
}

func TestParseNumbered(t *testing.T) {
	text := Format([]string{"Why us?", "Tell me about a time. Then explain."})
	assert.Equal(t, []string{"Why us?", "Tell me about a time. Then explain."}, ParseNumbered(text))
	assert.Equal(t, []string{"plain line"}, ParseNumbered("plain line\n\n"))
}
