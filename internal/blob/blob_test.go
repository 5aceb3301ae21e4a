package blob

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "a_b_c_d_e_f_g_h_i_j", Sanitize(`a/b\c:d*e?f"g<h>i|j`))
	assert.Equal(t, "Data Engineer", Sanitize("Data Engineer"))
	assert.Equal(t, "R_D_Lead", Slug("R/D Lead"))
}

func TestRolePath(t *testing.T) {
	assert.Equal(t, "roles/12_Data_Engineer/cvs/Jane_Doe_cv.pdf",
		RolePath(12, "Data Engineer", KindCVs, CandidateFile("Jane", "Doe", "cv.pdf")))
	assert.Equal(t, "roles/3_QA_Lead/jd/description.txt", RolePath(3, "QA/Lead", KindJD, "description.txt"))
}

func TestAnswersPath(t *testing.T) {
	ts := time.Date(2025, 4, 2, 13, 4, 5, 0, time.UTC)
	assert.Equal(t, "answers/Jane_Doe_Data_Engineer_20250402_130405.txt", AnswersPath("Jane Doe", "Data Engineer", ts))
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", DetectContentType([]byte("%PDF-1.4\n"), ""))
	assert.Equal(t, "text/plain; charset=utf-8", DetectContentType([]byte("hello"), "application/octet-stream"))
	assert.Equal(t, "text/markdown", DetectContentType([]byte("# hi"), "text/markdown"))
}

func TestLocalStore_Upload(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root)

	dest, err := store.Upload(context.Background(), "roles/1_X/cvs/a.txt", []byte("data"), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "roles", "1_X", "cvs", "a.txt"), dest)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
}

func TestLocalStore_RejectsEscape(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	_, err := store.Upload(context.Background(), "../outside.txt", []byte("x"), "")

	var upErr *UploadError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, BackendLocal, upErr.Backend)
}

func TestNew_Backends(t *testing.T) {
	store, err := New(context.Background(), Config{LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New(context.Background(), Config{Backend: "ftp"})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{Backend: BackendAzure})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{Backend: BackendS3})
	assert.Error(t, err)
}

func TestS3Store_Upload(t *testing.T) {
	var gotMethod, gotPath, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store, err := NewS3Store(context.Background(), S3Config{
		Bucket: "cvs", Endpoint: server.URL, AccessKey: "ak", SecretKey: "sk", PathStyle: true,
	})
	require.NoError(t, err)

	loc, err := store.Upload(context.Background(), "roles/1_X/cvs/a.pdf", []byte("%PDF-1.4\n"), "")
	require.NoError(t, err)
	assert.Equal(t, "s3://cvs/roles/1_X/cvs/a.pdf", loc)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/cvs/roles/1_X/cvs/a.pdf", gotPath)
	assert.Equal(t, "application/pdf", gotType)
}

func TestAzureStore_Upload(t *testing.T) {
	var gotMethod, gotPath, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotType = r.Method, r.URL.Path, r.Header.Get("x-ms-blob-content-type")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	store, err := NewAzureStore(AzureConfig{
		AccountName: "devstore",
		AccountKey:  base64.StdEncoding.EncodeToString([]byte("secret-key")),
		Container:   "landing",
		Endpoint:    server.URL + "/",
	})
	require.NoError(t, err)

	loc, err := store.Upload(context.Background(), "answers/a.txt", []byte("hello"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "landing/answers/a.txt", loc)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/landing/answers/a.txt", gotPath)
	assert.Equal(t, "text/plain", gotType)
}

func TestUploadError_Unwrap(t *testing.T) {
	base := errors.New("denied")
	err := error(&UploadError{Backend: BackendS3, Path: "p", Err: base})
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "s3 upload of p failed")
}
