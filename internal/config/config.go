// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/interview-sync/internal/blob"
	"github.com/jonathan/interview-sync/internal/types"
)

// Config is the service configuration loaded from a JSON file and overlaid
// with environment variables. Every section has defaults except the record
// store credentials.
type Config struct {
	RecordStore RecordStoreConfig `json:"record_store"`
	Tables      TablesConfig      `json:"tables"`
	Fields      types.FieldMap    `json:"fields,omitempty"`
	Portal      PortalConfig      `json:"portal"`
	Questions   QuestionsConfig   `json:"questions"`
	Schedule    ScheduleConfig    `json:"schedule"`
	Rank        RankConfig        `json:"rank"`
	Shortlist   ShortlistConfig   `json:"shortlist"`
	CVSync      CVSyncConfig      `json:"cv_sync"`
	Chat        ChatConfig        `json:"chat"`
	Server      ServerConfig      `json:"server"`
	Blob        blob.Config       `json:"blob"`

	// SecretsFile is a TOML file holding Azure credentials. When set it
	// must be readable.
	SecretsFile string `json:"secrets_file,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"`
	Verbose     bool   `json:"verbose,omitempty"`
}

// RecordStoreConfig locates the record-store API.
type RecordStoreConfig struct {
	BaseURL  string   `json:"base_url" validate:"required,url"`
	Token    string   `json:"token" validate:"required"`
	Timeout  Duration `json:"timeout,omitempty"`
	PageSize int      `json:"page_size,omitempty" validate:"gte=0,lte=1000"`
}

// TablesConfig holds table and link-field ids.
type TablesConfig struct {
	Jobs       string `json:"jobs" validate:"required"`
	Candidates string `json:"candidates" validate:"required"`
	Interviews string `json:"interviews" validate:"required"`
	// InterviewCandidateLink is the interview table's link field to
	// candidates. Without it new interviews are not linked.
	InterviewCandidateLink string `json:"interview_candidate_link,omitempty"`
	// JobShortlistLink is the job table's recommended-candidates link field.
	JobShortlistLink string `json:"job_shortlist_link,omitempty"`
}

// PortalConfig builds interview portal links.
type PortalConfig struct {
	BaseURL    string   `json:"base_url" validate:"required,url"`
	SigningKey string   `json:"signing_key,omitempty"`
	TokenTTL   Duration `json:"token_ttl,omitempty"`
}

// QuestionsConfig configures the question pool.
type QuestionsConfig struct {
	File  string `json:"file,omitempty"`
	Count int    `json:"count,omitempty" validate:"gte=0"`
}

// ScheduleConfig sets the periodic task intervals.
type ScheduleConfig struct {
	Reconcile      Duration `json:"reconcile,omitempty"`
	QuestionReload Duration `json:"question_reload,omitempty"`
	RankCorrection Duration `json:"rank_correction,omitempty"`
	Shortlist      Duration `json:"shortlist,omitempty"`
	// TaskTimeout bounds a single task run.
	TaskTimeout Duration `json:"task_timeout,omitempty"`
	// LinkDelay is waited between creating an interview and linking it.
	LinkDelay Duration `json:"link_delay,omitempty"`
	DueIn     Duration `json:"due_in,omitempty"`
}

// RankConfig holds the rank correction policy.
type RankConfig struct {
	// AllowList names CV files whose completed interviews get the top rank.
	AllowList     []string `json:"allow_list,omitempty"`
	AllowListFile string   `json:"allow_list_file,omitempty"`
}

// ShortlistConfig configures the shortlist linker.
type ShortlistConfig struct {
	MinRank int `json:"min_rank,omitempty" validate:"gte=0,lte=5"`
}

// CVSyncConfig configures CV downloads.
type CVSyncConfig struct {
	WorkDir     string   `json:"work_dir,omitempty"`
	Concurrency int      `json:"concurrency,omitempty" validate:"gte=0,lte=32"`
	Delay       Duration `json:"delay,omitempty"`
}

// ChatConfig holds the questionnaire script.
type ChatConfig struct {
	Platform string `json:"platform,omitempty"`
	Company  string `json:"company,omitempty"`
}

// ServerConfig configures the webhook and chat server.
type ServerConfig struct {
	Port           int      `json:"port,omitempty" validate:"gte=0,lte=65535"`
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
	TranscriptDir  string   `json:"transcript_dir,omitempty"`
	// WebhookSecret, when set, must match the X-Webhook-Secret header.
	WebhookSecret string `json:"webhook_secret,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		RecordStore: RecordStoreConfig{
			Timeout:  Duration(30 * time.Second),
			PageSize: 100,
		},
		Tables: TablesConfig{
			Jobs:             "mgwvuug18vkrhg0",
			Candidates:       "m0ro5phcebcdbt7",
			Interviews:       "mpims4p3zrwsarx",
			JobShortlistLink: "c2m9fbmh42orqbf",
		},
		Fields: types.DefaultFieldMap(),
		Portal: PortalConfig{
			BaseURL:  "http://localhost:8501/",
			TokenTTL: Duration(30 * 24 * time.Hour),
		},
		Questions: QuestionsConfig{Count: 6},
		Schedule: ScheduleConfig{
			Reconcile:      Duration(10 * time.Second),
			QuestionReload: Duration(5 * time.Minute),
			RankCorrection: Duration(time.Minute),
			Shortlist:      Duration(time.Minute),
			TaskTimeout:    Duration(2 * time.Minute),
			LinkDelay:      Duration(2 * time.Second),
			DueIn:          Duration(14 * 24 * time.Hour),
		},
		Shortlist: ShortlistConfig{MinRank: 4},
		CVSync: CVSyncConfig{
			WorkDir:     "role_cvs",
			Concurrency: 1,
			Delay:       Duration(500 * time.Millisecond),
		},
		Chat:   ChatConfig{Platform: "The Candidate"},
		Server: ServerConfig{Port: 8080, TranscriptDir: "interview_responses"},
		Blob:   blob.Config{LocalDir: "blob_store"},
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: file (optional), then defaults
// for anything unset, then environment overrides, then the secrets file.
// The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	merged := cfg.MergeWithDefaults(Defaults())
	merged.ApplyEnv(os.LookupEnv)

	if merged.SecretsFile != "" {
		secrets, err := LoadSecrets(merged.SecretsFile)
		if err != nil {
			return nil, err
		}
		merged.ApplySecrets(secrets)
	}
	merged.resolveBlobBackend()

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// resolveBlobBackend picks Azure when credentials are present and no
// backend was chosen, otherwise the local directory.
func (c *Config) resolveBlobBackend() {
	if c.Blob.Backend != "" {
		return
	}
	if c.Blob.Azure.AccountName != "" && c.Blob.Azure.AccountKey != "" {
		c.Blob.Backend = blob.BackendAzure
		return
	}
	c.Blob.Backend = blob.BackendLocal
}

var validate = validator.New()

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Schedule.Reconcile.Duration() <= 0 {
		return fmt.Errorf("config error: 'schedule.reconcile' must be positive")
	}
	if c.Blob.Backend == blob.BackendAzure && (c.Blob.Azure.AccountName == "" || c.Blob.Azure.AccountKey == "") {
		return fmt.Errorf("config error: azure blob backend needs account name and key")
	}
	if c.Blob.Backend == blob.BackendS3 && c.Blob.S3.Bucket == "" {
		return fmt.Errorf("config error: s3 blob backend needs a bucket")
	}
	if c.Rank.AllowListFile != "" {
		if _, err := os.Stat(c.Rank.AllowListFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: allow-list file not found: %s", c.Rank.AllowListFile)
		}
	}
	if c.Questions.File != "" {
		if _, err := os.Stat(c.Questions.File); os.IsNotExist(err) {
			return fmt.Errorf("config error: question file not found: %s", c.Questions.File)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	str := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	num := func(dst *int, def int) {
		if *dst == 0 {
			*dst = def
		}
	}
	dur := func(dst *Duration, def Duration) {
		if *dst == 0 {
			*dst = def
		}
	}

	str(&result.RecordStore.BaseURL, defaults.RecordStore.BaseURL)
	str(&result.RecordStore.Token, defaults.RecordStore.Token)
	dur(&result.RecordStore.Timeout, defaults.RecordStore.Timeout)
	num(&result.RecordStore.PageSize, defaults.RecordStore.PageSize)

	str(&result.Tables.Jobs, defaults.Tables.Jobs)
	str(&result.Tables.Candidates, defaults.Tables.Candidates)
	str(&result.Tables.Interviews, defaults.Tables.Interviews)
	str(&result.Tables.InterviewCandidateLink, defaults.Tables.InterviewCandidateLink)
	str(&result.Tables.JobShortlistLink, defaults.Tables.JobShortlistLink)

	result.Fields = result.Fields.WithDefaults()

	str(&result.Portal.BaseURL, defaults.Portal.BaseURL)
	str(&result.Portal.SigningKey, defaults.Portal.SigningKey)
	dur(&result.Portal.TokenTTL, defaults.Portal.TokenTTL)

	str(&result.Questions.File, defaults.Questions.File)
	num(&result.Questions.Count, defaults.Questions.Count)

	dur(&result.Schedule.Reconcile, defaults.Schedule.Reconcile)
	dur(&result.Schedule.QuestionReload, defaults.Schedule.QuestionReload)
	dur(&result.Schedule.RankCorrection, defaults.Schedule.RankCorrection)
	dur(&result.Schedule.Shortlist, defaults.Schedule.Shortlist)
	dur(&result.Schedule.TaskTimeout, defaults.Schedule.TaskTimeout)
	dur(&result.Schedule.LinkDelay, defaults.Schedule.LinkDelay)
	dur(&result.Schedule.DueIn, defaults.Schedule.DueIn)

	if len(result.Rank.AllowList) == 0 {
		result.Rank.AllowList = defaults.Rank.AllowList
	}
	str(&result.Rank.AllowListFile, defaults.Rank.AllowListFile)

	num(&result.Shortlist.MinRank, defaults.Shortlist.MinRank)

	str(&result.CVSync.WorkDir, defaults.CVSync.WorkDir)
	num(&result.CVSync.Concurrency, defaults.CVSync.Concurrency)
	dur(&result.CVSync.Delay, defaults.CVSync.Delay)

	str(&result.Chat.Platform, defaults.Chat.Platform)
	str(&result.Chat.Company, defaults.Chat.Company)

	num(&result.Server.Port, defaults.Server.Port)
	if len(result.Server.AllowedOrigins) == 0 {
		result.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}
	str(&result.Server.TranscriptDir, defaults.Server.TranscriptDir)
	str(&result.Server.WebhookSecret, defaults.Server.WebhookSecret)

	str(&result.Blob.Backend, defaults.Blob.Backend)
	str(&result.Blob.LocalDir, defaults.Blob.LocalDir)

	str(&result.SecretsFile, defaults.SecretsFile)
	str(&result.DatabaseURL, defaults.DatabaseURL)

	// Bool fields: cannot distinguish unset from false, so we don't merge

	return result
}

// Duration is a time.Duration that reads "10s"-style strings or a number
// of seconds from JSON.
type Duration time.Duration

// Duration returns the value as a time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		*d = Duration(time.Duration(val * float64(time.Second)))
		return nil
	case string:
		parsed, err := time.ParseDuration(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", val, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(data))
	}
}
