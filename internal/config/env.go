package config

import (
	"log"
	"strconv"
	"strings"
	"time"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides configuration values from environment variables. Unset
// or empty variables leave the current value alone.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				log.Printf("[CONFIG] Ignoring invalid %s=%q: %v", key, v, err)
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				log.Printf("[CONFIG] Ignoring invalid %s=%q: %v", key, v, err)
				return
			}
			*dst = Duration(d)
		}
	}

	str("NOCODB_URL", &c.RecordStore.BaseURL)
	str("NOCODB_TOKEN", &c.RecordStore.Token)
	str("NOCODB_JOBS_TABLE", &c.Tables.Jobs)
	str("NOCODB_CANDIDATES_TABLE", &c.Tables.Candidates)
	str("NOCODB_INTERVIEWS_TABLE", &c.Tables.Interviews)
	str("NOCODB_INTERVIEW_CANDIDATE_LINK", &c.Tables.InterviewCandidateLink)
	str("NOCODB_JOB_SHORTLIST_LINK", &c.Tables.JobShortlistLink)

	str("PORTAL_BASE_URL", &c.Portal.BaseURL)
	str("PORTAL_SIGNING_KEY", &c.Portal.SigningKey)
	dur("PORTAL_TOKEN_TTL", &c.Portal.TokenTTL)

	str("QUESTIONS_FILE", &c.Questions.File)
	dur("RECONCILE_INTERVAL", &c.Schedule.Reconcile)

	str("DATABASE_URL", &c.DatabaseURL)
	str("SECRETS_FILE", &c.SecretsFile)

	str("BLOB_BACKEND", &c.Blob.Backend)
	str("AZURE_STORAGE_ACCOUNT_NAME", &c.Blob.Azure.AccountName)
	str("AZURE_STORAGE_ACCOUNT_KEY", &c.Blob.Azure.AccountKey)
	str("AZURE_CONTAINER_NAME", &c.Blob.Azure.Container)
	str("S3_BUCKET", &c.Blob.S3.Bucket)
	str("S3_REGION", &c.Blob.S3.Region)
	str("S3_ENDPOINT", &c.Blob.S3.Endpoint)
	str("S3_ACCESS_KEY", &c.Blob.S3.AccessKey)
	str("S3_SECRET_KEY", &c.Blob.S3.SecretKey)
	str("R2_ACCOUNT_ID", &c.Blob.S3.R2AccountID)

	num("PORT", &c.Server.Port)
	str("WEBHOOK_SECRET", &c.Server.WebhookSecret)
}
