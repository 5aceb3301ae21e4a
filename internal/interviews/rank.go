package interviews

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jonathan/interview-sync/internal/records"
	"github.com/jonathan/interview-sync/internal/types"
)

// RankPolicy decides which completed interviews get the maximum rank.
type RankPolicy interface {
	Promote(iv types.Interview) bool
}

// RankPolicyFunc adapts a function to RankPolicy.
type RankPolicyFunc func(iv types.Interview) bool

// Promote calls fn.
func (fn RankPolicyFunc) Promote(iv types.Interview) bool { return fn(iv) }

// AllowList promotes interviews whose CV filename is listed.
type AllowList map[string]struct{}

// NewAllowList builds an allow-list from filenames. Blank entries are ignored.
func NewAllowList(filenames ...string) AllowList {
	list := make(AllowList, len(filenames))
	for _, name := range filenames {
		if name = strings.TrimSpace(name); name != "" {
			list[name] = struct{}{}
		}
	}
	return list
}

// LoadAllowList reads one filename per line. Lines starting with '#' are
// comments.
func LoadAllowList(path string) (AllowList, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open allow-list: %w", err)
	}
	defer func() { _ = file.Close() }()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read allow-list: %w", err)
	}
	return NewAllowList(names...), nil
}

// Promote reports whether the interview's CV file is on the list.
func (a AllowList) Promote(iv types.Interview) bool {
	_, ok := a[iv.CVFilename]
	return ok
}

// RankResult summarizes a rank correction pass.
type RankResult struct {
	Checked  int   `json:"checked"`
	Promoted []int `json:"promoted"`
	Failed   int   `json:"failed"`
}

// CorrectRanks sets rank to the maximum on completed interviews the policy
// selects. Interviews already at the maximum are left alone, so repeated
// passes write nothing.
func (r *Reconciler) CorrectRanks(ctx context.Context) (RankResult, error) {
	var result RankResult
	if r.policy == nil {
		return result, nil
	}

	recs, err := r.store.List(ctx, r.cfg.Tables.Interviews, nil)
	if err != nil {
		return result, fmt.Errorf("failed to fetch interviews: %w", err)
	}

	f := r.cfg.Fields
	for _, rec := range recs {
		iv := types.InterviewFromRecord(rec, f)
		result.Checked++
		if iv.Status != types.StatusComplete || iv.Rank == types.RankMax || !r.policy.Promote(iv) {
			continue
		}

		err := r.store.Update(ctx, r.cfg.Tables.Interviews, records.Record{records.IDField: iv.ID, f.Rank: types.RankMax})
		if err != nil {
			log.Printf("[RANK] Failed to update rank for interview %d: %v", iv.ID, err)
			result.Failed++
			continue
		}
		log.Printf("[RANK] Interview %d (%s) rank %d -> %d", iv.ID, iv.CVFilename, iv.Rank, types.RankMax)
		result.Promoted = append(result.Promoted, iv.ID)
	}
	return result, nil
}
