package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTranscript_Valid(t *testing.T) {
	doc := `{
		"id": "abc",
		"interview_id": 12,
		"candidate_name": "Jane Doe",
		"role_name": "Engineer",
		"started_at": "2025-03-01T09:30:00Z",
		"completed_at": "2025-03-01T09:40:00Z",
		"messages": [{"role": "assistant", "content": "Hello"}, {"role": "user", "content": "Hi"}]
	}`
	assert.NoError(t, ValidateTranscript([]byte(doc)))
}

func TestValidateTranscript_MissingFields(t *testing.T) {
	err := ValidateTranscript([]byte(`{"id": "abc", "messages": []}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.GreaterOrEqual(t, len(validationErr.Errors), 3)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateTranscript_BadRole(t *testing.T) {
	doc := `{"id": "a", "candidate_name": "J", "role_name": "R", "started_at": "2025-03-01T09:30:00Z",
		"messages": [{"role": "system", "content": "x"}]}`
	var validationErr *ValidationError
	require.ErrorAs(t, ValidateTranscript([]byte(doc)), &validationErr)
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString("broken", `{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "broken", loadErr.Name)
}

func TestValidateJSONString_MalformedDocument(t *testing.T) {
	err := ValidateJSONString("transcript", transcriptSchema, `{not json`)
	assert.Error(t, err)
}
