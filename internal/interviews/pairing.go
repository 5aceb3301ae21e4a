package interviews

import (
	"context"
	"log"

	"github.com/jonathan/interview-sync/internal/records"
	"github.com/jonathan/interview-sync/internal/types"
)

// BuildPairs emits one pair per (job, embedded candidate). Jobs without a
// title are skipped. CandidateID is taken from the embedded relation object
// when it carries one; ResolveCandidate fills the rest.
func BuildPairs(jobs []types.Job) []types.CandidateJobPair {
	var pairs []types.CandidateJobPair
	for _, job := range jobs {
		if job.Title == "" {
			log.Printf("[RECONCILE] Skipping job %d: no title", job.ID)
			continue
		}
		for _, c := range job.Candidates {
			pair := types.CandidateJobPair{
				JobID:      job.ID,
				JobTitle:   job.Title,
				Client:     job.Client,
				FirstName:  c.FirstName,
				LastName:   c.LastName,
				CVFilename: c.CVFilename(),
			}
			if c.ID > 0 {
				id := c.ID
				pair.CandidateID = &id
			}
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

// ResolveCandidate looks the candidate up by exact first and last name when
// the pair has no id yet. The first match wins. A failed lookup leaves the
// id nil; the interview is then created without a candidate link.
func (r *Reconciler) ResolveCandidate(ctx context.Context, pair types.CandidateJobPair) types.CandidateJobPair {
	if pair.CandidateID != nil {
		return pair
	}

	f := r.cfg.Fields
	where := records.Where(
		records.Eq(f.FirstName, pair.FirstName),
		records.Eq(f.LastName, pair.LastName),
	)
	rec, err := r.store.Find(ctx, r.cfg.Tables.Candidates, where)
	if err != nil {
		log.Printf("[RECONCILE] Candidate lookup failed for %s: %v", pair.CandidateName(), err)
		return pair
	}
	if rec == nil {
		log.Printf("[RECONCILE] No candidate record for %s", pair.CandidateName())
		return pair
	}
	if id := rec.ID(); id > 0 {
		pair.CandidateID = &id
	}
	if pair.CVFilename == "" {
		pair.CVFilename = types.CandidateFromRecord(rec, f).CVFilename()
	}
	return pair
}
