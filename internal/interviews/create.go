package interviews

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/interview-sync/internal/portal"
	"github.com/jonathan/interview-sync/internal/questions"
	"github.com/jonathan/interview-sync/internal/records"
	"github.com/jonathan/interview-sync/internal/types"
)

// followUpTimeout bounds the patch and link steps that run after an
// interview row exists.
const followUpTimeout = 30 * time.Second

// Date layouts written to the interview table.
const (
	DueDateLayout   = "2006-01-02"
	DateAddedLayout = "2006-01-02 15:04:05"
)

// CreateOutcome reports what happened after an interview row was written.
type CreateOutcome struct {
	InterviewID int
	Linked      bool
	// PatchErr and LinkErr are logged, not returned: the interview exists
	// once the first write succeeds.
	PatchErr error
	LinkErr  error
}

// CreateInterview writes one interview in three steps: create the row with a
// provisional portal link, patch the link with the new record id, then link
// the candidate after LinkDelay. Only a failed create is returned as an error.
// Once the row exists the remaining steps ignore cancellation of ctx: a later
// cycle skips the title, so an interrupted link would never be retried.
func (r *Reconciler) CreateInterview(ctx context.Context, pair types.CandidateJobPair) (CreateOutcome, error) {
	var out CreateOutcome
	f := r.cfg.Fields
	now := r.now().In(r.location)

	provisional, err := r.links.Link(portal.Params{Role: pair.JobTitle, Candidate: pair.CandidateName()})
	if err != nil {
		return out, fmt.Errorf("failed to build portal link: %w", err)
	}

	fields := records.Record{
		f.Title:      pair.Title(),
		f.PortalLink: provisional,
		f.DueDate:    now.Add(r.cfg.DueIn).Format(DueDateLayout),
		f.Status:     types.StatusReady,
		f.Rank:       types.RankUnset,
		f.Questions:  questions.Format(r.sampler.Sample(r.cfg.QuestionCount)),
		f.DateAdded:  now.Format(DateAddedLayout),
	}
	if pair.CVFilename != "" {
		fields[f.CVFilename] = pair.CVFilename
	}

	created, err := r.store.Create(ctx, r.cfg.Tables.Interviews, fields)
	if err != nil {
		return out, fmt.Errorf("failed to create interview record: %w", err)
	}
	id, _ := created.Int(records.IDField)
	if id <= 0 {
		return out, fmt.Errorf("create response for %q carried no record id", pair.Title())
	}
	out.InterviewID = id
	log.Printf("[RECONCILE] Created interview %d: %s", id, pair.Title())

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.LinkDelay+followUpTimeout)
	defer cancel()

	final, err := r.links.Link(portal.Params{
		Role:        pair.JobTitle,
		Candidate:   pair.CandidateName(),
		InterviewID: id,
		CVFile:      pair.CVFilename,
	})
	if err == nil {
		err = r.store.Update(ctx, r.cfg.Tables.Interviews, records.Record{records.IDField: id, f.PortalLink: final})
	}
	if err != nil {
		out.PatchErr = err
		log.Printf("[RECONCILE] Failed to update portal link for interview %d: %v", id, err)
	}

	if pair.CandidateID == nil {
		log.Printf("[RECONCILE] Interview %d has no candidate to link", id)
		return out, nil
	}
	if r.cfg.Tables.InterviewCandidateLink == "" {
		log.Printf("[RECONCILE] No candidate link field configured, interview %d left unlinked", id)
		return out, nil
	}

	if err := r.sleep(ctx, r.cfg.LinkDelay); err != nil {
		out.LinkErr = err
		return out, nil
	}
	if err := r.store.Link(ctx, r.cfg.Tables.Interviews, r.cfg.Tables.InterviewCandidateLink, id, *pair.CandidateID); err != nil {
		out.LinkErr = err
		log.Printf("[RECONCILE] Failed to link candidate %d to interview %d: %v", *pair.CandidateID, id, err)
		return out, nil
	}
	out.Linked = true
	return out, nil
}
