package interviews

import "github.com/jonathan/interview-sync/internal/types"

// DiffResult splits pairs into those needing an interview, those that
// already have one, and repeats of a title created earlier in the batch.
type DiffResult struct {
	Create    []types.CandidateJobPair
	Skip      []types.CandidateJobPair
	Duplicate []types.CandidateJobPair
}

// Diff compares derived titles against existing interview titles. Matching
// is exact and case sensitive. Pairs deriving the same title within one
// batch are created once.
func Diff(pairs []types.CandidateJobPair, existing []types.Interview) DiffResult {
	titles := make(map[string]struct{}, len(existing))
	for _, iv := range existing {
		titles[iv.Title] = struct{}{}
	}

	var out DiffResult
	batch := make(map[string]struct{})
	for _, p := range pairs {
		title := p.Title()
		if _, ok := titles[title]; ok {
			out.Skip = append(out.Skip, p)
			continue
		}
		if _, ok := batch[title]; ok {
			out.Duplicate = append(out.Duplicate, p)
			continue
		}
		batch[title] = struct{}{}
		out.Create = append(out.Create, p)
	}
	return out
}
