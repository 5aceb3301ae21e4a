// Package blob uploads files to object storage: Azure Blob, S3-compatible
// buckets (AWS, Cloudflare R2) or a local directory.
package blob

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Store uploads bytes to a path and returns where they ended up.
type Store interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// Backend names.
const (
	BackendAzure = "azure"
	BackendS3    = "s3"
	BackendLocal = "local"
)

// Config selects and configures a backend.
type Config struct {
	Backend string      `json:"backend,omitempty" validate:"omitempty,oneof=azure s3 local"`
	Azure   AzureConfig `json:"azure,omitempty"`
	S3      S3Config    `json:"s3,omitempty"`
	// LocalDir is the root for the local backend.
	LocalDir string `json:"local_dir,omitempty"`
}

// New builds the configured store.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendAzure:
		return NewAzureStore(cfg.Azure)
	case BackendS3:
		return NewS3Store(ctx, cfg.S3)
	case BackendLocal, "":
		dir := cfg.LocalDir
		if dir == "" {
			dir = "blob_store"
		}
		return NewLocalStore(dir), nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}

// UploadError is returned by every backend when an upload fails.
type UploadError struct {
	Backend string
	Path    string
	Err     error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s upload of %s failed: %v", e.Backend, e.Path, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

var unsafeChars = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// Sanitize replaces characters that are unsafe in file and blob names.
func Sanitize(name string) string {
	return unsafeChars.Replace(name)
}

// Slug sanitizes name and replaces spaces with underscores.
func Slug(name string) string {
	return strings.ReplaceAll(Sanitize(name), " ", "_")
}

// Kinds of files stored under a role.
const (
	KindCVs = "cvs"
	KindJD  = "jd"
)

// RolePath is roles/{id}_{role}/{kind}/{file}.
func RolePath(roleID int, roleName, kind, file string) string {
	return path.Join("roles", fmt.Sprintf("%d_%s", roleID, Slug(roleName)), kind, Sanitize(file))
}

// CandidateFile prefixes a file name with First_Last.
func CandidateFile(first, last, file string) string {
	return Slug(first+"_"+last) + "_" + Sanitize(file)
}

// AnswersPath is answers/{candidate}_{role}_{yyyymmdd_hhmmss}.txt.
func AnswersPath(candidate, role string, ts time.Time) string {
	return path.Join("answers", fmt.Sprintf("%s_%s_%s.txt", Slug(candidate), Slug(role), ts.Format("20060102_150405")))
}

// DetectContentType sniffs data. An explicit, non-generic type wins.
func DetectContentType(data []byte, declared string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return mimetype.Detect(data).String()
}
