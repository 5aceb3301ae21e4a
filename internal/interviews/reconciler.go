// Package interviews keeps the interview table in step with the job/candidate
// relation graph: every (job, linked candidate) pair gets exactly one
// interview record, keyed by its derived title.
package interviews

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/interview-sync/internal/portal"
	"github.com/jonathan/interview-sync/internal/records"
	"github.com/jonathan/interview-sync/internal/types"
)

// Defaults for Config.
const (
	DefaultDueIn         = 14 * 24 * time.Hour
	DefaultLinkDelay     = 2 * time.Second
	DefaultQuestionCount = 6
)

// Store is the subset of the record-store client the reconciler needs.
type Store interface {
	List(ctx context.Context, tableID string, q *records.Query) ([]records.Record, error)
	Find(ctx context.Context, tableID, where string) (records.Record, error)
	Create(ctx context.Context, tableID string, fields records.Record) (records.Record, error)
	Update(ctx context.Context, tableID string, fields records.Record) error
	Link(ctx context.Context, tableID, linkField string, recordID int, relatedIDs ...int) error
}

// Sampler draws interview questions.
type Sampler interface {
	Sample(n int) []string
}

// Tables holds the record-store table and link-field ids.
type Tables struct {
	Jobs       string
	Candidates string
	Interviews string
	// InterviewCandidateLink is the link field on the interview table that
	// points at the candidate table.
	InterviewCandidateLink string
}

// Config tunes a Reconciler.
type Config struct {
	Tables        Tables
	Fields        types.FieldMap
	QuestionCount int
	DueIn         time.Duration
	// LinkDelay is waited between creating an interview and linking its
	// candidate, so the store has settled the new row.
	LinkDelay time.Duration
}

// Reconciler runs reconciliation cycles and rank corrections.
type Reconciler struct {
	store    Store
	cfg      Config
	sampler  Sampler
	links    *portal.Builder
	policy   RankPolicy
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	location *time.Location
}

// NewReconciler wires a reconciler. policy may be nil, which disables rank
// correction.
func NewReconciler(store Store, cfg Config, sampler Sampler, links *portal.Builder, policy RankPolicy) *Reconciler {
	if cfg.QuestionCount <= 0 {
		cfg.QuestionCount = DefaultQuestionCount
	}
	if cfg.DueIn <= 0 {
		cfg.DueIn = DefaultDueIn
	}
	cfg.Fields = cfg.Fields.WithDefaults()

	return &Reconciler{
		store:    store,
		cfg:      cfg,
		sampler:  sampler,
		links:    links,
		policy:   policy,
		now:      time.Now,
		sleep:    sleepContext,
		location: time.Local,
	}
}

// CycleResult summarizes one reconciliation cycle.
type CycleResult struct {
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Pairs      int           `json:"pairs"`
	Created    int           `json:"created"`
	Skipped    int           `json:"skipped"`
	Duplicates int           `json:"duplicates"`
	Failed     int           `json:"failed"`
	Linked     int           `json:"linked"`
	LinkFailed int           `json:"link_failed"`
	Unresolved int           `json:"unresolved"`
}

// RunCycle fetches jobs and interviews, derives the pairs that should have an
// interview, and creates the missing ones. Failing to fetch either table
// aborts the cycle; a failure on a single pair only counts it as failed, and
// the pair is retried on the next cycle because its title still does not exist.
func (r *Reconciler) RunCycle(ctx context.Context) (result CycleResult, err error) {
	result.StartedAt = r.now()
	defer func() { result.Duration = r.now().Sub(result.StartedAt) }()

	jobRecs, err := r.store.List(ctx, r.cfg.Tables.Jobs, nil)
	if err != nil {
		return result, fmt.Errorf("failed to fetch jobs: %w", err)
	}
	ivRecs, err := r.store.List(ctx, r.cfg.Tables.Interviews, nil)
	if err != nil {
		return result, fmt.Errorf("failed to fetch interviews: %w", err)
	}
	log.Printf("[RECONCILE] Fetched %d jobs and %d interviews", len(jobRecs), len(ivRecs))

	jobs := make([]types.Job, 0, len(jobRecs))
	for _, rec := range jobRecs {
		jobs = append(jobs, types.JobFromRecord(rec, r.cfg.Fields))
	}
	existing := make([]types.Interview, 0, len(ivRecs))
	for _, rec := range ivRecs {
		existing = append(existing, types.InterviewFromRecord(rec, r.cfg.Fields))
	}

	pairs := BuildPairs(jobs)
	result.Pairs = len(pairs)

	diff := Diff(pairs, existing)
	result.Skipped = len(diff.Skip)
	for _, p := range diff.Skip {
		log.Printf("[RECONCILE] Skipping existing interview: %s", p.Title())
	}
	result.Duplicates = len(diff.Duplicate)
	for _, p := range diff.Duplicate {
		log.Printf("[RECONCILE] Duplicate pair in batch, created once: %s", p.Title())
	}

	for _, pair := range diff.Create {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		pair = r.ResolveCandidate(ctx, pair)
		if pair.CandidateID == nil {
			result.Unresolved++
		}

		outcome, err := r.CreateInterview(ctx, pair)
		if err != nil {
			log.Printf("[RECONCILE] Failed to create interview %q: %v", pair.Title(), err)
			result.Failed++
			continue
		}
		result.Created++
		switch {
		case outcome.Linked:
			result.Linked++
		case outcome.LinkErr != nil:
			result.LinkFailed++
		}
	}

	log.Printf("[RECONCILE] Cycle done: pairs=%d created=%d skipped=%d duplicates=%d failed=%d linked=%d",
		result.Pairs, result.Created, result.Skipped, result.Duplicates, result.Failed, result.Linked)
	return result, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
