// Package shortlist links highly rated candidates to their job's
// recommended-candidates field.
package shortlist

import (
	"context"
	"fmt"
	"strconv"
	"log"
	"slices"

	"github.com/jonathan/interview-sync/internal/records"
	"github.com/jonathan/interview-sync/internal/types"
)

// DefaultMinRank is the lowest rank that puts a candidate on the shortlist.
const DefaultMinRank = 4

// Store is the record-store surface the linker uses.
type Store interface {
	List(ctx context.Context, tableID string, q *records.Query) ([]records.Record, error)
	Find(ctx context.Context, tableID, where string) (records.Record, error)
	Link(ctx context.Context, tableID, linkField string, recordID int, relatedIDs ...int) error
}

// Config names the tables and the job link field.
type Config struct {
	JobsTable       string
	CandidatesTable string
	InterviewsTable string
	// LinkField is the job table's recommended-candidates link field id.
	LinkField string
	MinRank   int
	Fields    types.FieldMap
}

// Result summarizes a pass.
type Result struct {
	HighRated   int `json:"high_rated"`
	Jobs        int `json:"jobs"`
	LinkedJobs  int `json:"linked_jobs"`
	Unmatched   int `json:"unmatched"`
	FailedLinks int `json:"failed_links"`
}

// Linker runs shortlist passes.
type Linker struct {
	store Store
	cfg   Config
}

// NewLinker creates a linker.
func NewLinker(store Store, cfg Config) *Linker {
	if cfg.MinRank <= 0 {
		cfg.MinRank = DefaultMinRank
	}
	cfg.Fields = cfg.Fields.WithDefaults()
	return &Linker{store: store, cfg: cfg}
}

// Run finds interviews at or above MinRank, maps each back to its job by
// parsing the title, and links the candidates in one call per job.
// Interviews that cannot be matched are logged and skipped.
func (l *Linker) Run(ctx context.Context) (Result, error) {
	var result Result
	f := l.cfg.Fields

	jobRecs, err := l.store.List(ctx, l.cfg.JobsTable, nil)
	if err != nil {
		return result, fmt.Errorf("failed to fetch jobs: %w", err)
	}
	ivRecs, err := l.store.List(ctx, l.cfg.InterviewsTable, &records.Query{
		Where: records.Where(records.Gte(f.Rank, strconv.Itoa(l.cfg.MinRank))),
	})
	if err != nil {
		return result, fmt.Errorf("failed to fetch interviews: %w", err)
	}

	jobs := make([]types.Job, 0, len(jobRecs))
	for _, rec := range jobRecs {
		jobs = append(jobs, types.JobFromRecord(rec, f))
	}

	byJob := map[int][]int{}
	var order []int
	for _, rec := range ivRecs {
		iv := types.InterviewFromRecord(rec, f)
		if iv.Rank < l.cfg.MinRank {
			continue
		}
		result.HighRated++

		jobID, candidateID, ok := l.match(ctx, iv, jobs)
		if !ok {
			result.Unmatched++
			continue
		}
		if _, seen := byJob[jobID]; !seen {
			order = append(order, jobID)
		}
		if !slices.Contains(byJob[jobID], candidateID) {
			byJob[jobID] = append(byJob[jobID], candidateID)
			log.Printf("[SHORTLIST] Adding candidate %d to job %d (%s)", candidateID, jobID, iv.Title)
		}
	}

	result.Jobs = len(order)
	for _, jobID := range order {
		ids := byJob[jobID]
		if err := l.store.Link(ctx, l.cfg.JobsTable, l.cfg.LinkField, jobID, ids...); err != nil {
			log.Printf("[SHORTLIST] Failed to link candidates %v to job %d: %v", ids, jobID, err)
			result.FailedLinks++
			continue
		}
		result.LinkedJobs++
	}

	log.Printf("[SHORTLIST] high_rated=%d jobs=%d linked=%d unmatched=%d",
		result.HighRated, result.Jobs, result.LinkedJobs, result.Unmatched)
	return result, nil
}

func (l *Linker) match(ctx context.Context, iv types.Interview, jobs []types.Job) (jobID, candidateID int, ok bool) {
	if iv.Title == "" {
		log.Printf("[SHORTLIST] Interview %d has no title, skipping", iv.ID)
		return 0, 0, false
	}
	parsed, valid := types.ParseTitle(iv.Title)
	if !valid {
		log.Printf("[SHORTLIST] Could not parse interview title %q", iv.Title)
		return 0, 0, false
	}

	job, found := FindJob(jobs, parsed.JobTitle, parsed.Client)
	if !found || job.ID == 0 {
		log.Printf("[SHORTLIST] Job not found for title %q, client %q", parsed.JobTitle, parsed.Client)
		return 0, 0, false
	}

	candidateID = l.candidateID(ctx, iv, parsed)
	if candidateID == 0 {
		log.Printf("[SHORTLIST] Could not find candidate id for %s %s", parsed.FirstName, parsed.LastName)
		return 0, 0, false
	}
	return job.ID, candidateID, true
}

func (l *Linker) candidateID(ctx context.Context, iv types.Interview, parsed types.ParsedTitle) int {
	for _, c := range iv.Candidates {
		if c.FirstName == parsed.FirstName && c.LastName == parsed.LastName && c.ID > 0 {
			return c.ID
		}
	}

	f := l.cfg.Fields
	where := records.Where(records.Eq(f.FirstName, parsed.FirstName), records.Eq(f.LastName, parsed.LastName))
	rec, err := l.store.Find(ctx, l.cfg.CandidatesTable, where)
	if err != nil {
		log.Printf("[SHORTLIST] Candidate lookup failed: %v", err)
		return 0
	}
	if rec == nil {
		return 0
	}
	return rec.ID()
}

// FindJob returns the first job with the given title. When client is
// non-empty the client must match too.
func FindJob(jobs []types.Job, title, client string) (types.Job, bool) {
	for _, job := range jobs {
		if job.Title != title {
			continue
		}
		if client == "" || job.Client == client {
			return job, true
		}
	}
	return types.Job{}, false
}
