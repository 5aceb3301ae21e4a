package server

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/interview-sync/internal/records"
)

// roleSyncTimeout bounds a background sync started by a webhook.
const roleSyncTimeout = 10 * time.Minute

// WebhookPayload is the record-store webhook body. A bare {"role_id": n}
// is accepted too.
type WebhookPayload struct {
	Type   string      `json:"type"`
	RoleID int         `json:"role_id,omitempty"`
	Data   WebhookData `json:"data"`
}

// WebhookData carries the changed rows.
type WebhookData struct {
	TableID   string           `json:"table_id"`
	TableName string           `json:"table_name"`
	Rows      []records.Record `json:"rows"`
}

// RoleIDs returns the job ids a payload asks to sync. Only inserts and
// updates on jobsTable count; an empty jobsTable accepts any table.
func (p WebhookPayload) RoleIDs(jobsTable string) []int {
	if p.RoleID > 0 {
		return []int{p.RoleID}
	}
	if !strings.HasPrefix(p.Type, "records.after.insert") && !strings.HasPrefix(p.Type, "records.after.update") {
		return nil
	}
	if jobsTable != "" && p.Data.TableID != "" && p.Data.TableID != jobsTable {
		return nil
	}

	var ids []int
	seen := make(map[int]bool)
	for _, row := range p.Data.Rows {
		if id := row.ID(); id > 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// handleWebhook accepts a record-store event and syncs the affected roles in
// the background.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if s.opts.Syncer == nil {
		s.fail(w, &ErrUnavailable{Feature: "role sync"})
		return
	}

	var payload WebhookPayload
	if err := s.decodeJSON(w, r, &payload); err != nil {
		s.fail(w, err)
		return
	}

	ids := payload.RoleIDs(s.opts.JobsTable)
	if len(ids) == 0 {
		log.Printf("[WEBHOOK] Ignoring %q event on table %q", payload.Type, payload.Data.TableID)
		s.jsonResponse(w, http.StatusOK, map[string]any{"status": "ignored"})
		return
	}

	log.Printf("[WEBHOOK] %q event, syncing roles %v", payload.Type, ids)
	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		ctx, cancel := context.WithTimeout(s.baseCtx, roleSyncTimeout)
		defer cancel()
		for _, id := range ids {
			summary, err := s.opts.Syncer.SyncRole(ctx, id)
			if err != nil {
				log.Printf("[WEBHOOK] Sync of role %d failed: %v", id, err)
				continue
			}
			log.Printf("[WEBHOOK] Synced role %d: %d CVs uploaded, %d failed", id, summary.Uploaded, summary.Failed)
		}
	}()

	s.jsonResponse(w, http.StatusAccepted, map[string]any{"status": "accepted", "roles": ids})
}

// handleRoleSync syncs one role and returns its summary.
func (s *Server) handleRoleSync(w http.ResponseWriter, r *http.Request) {
	if s.opts.Syncer == nil {
		s.fail(w, &ErrUnavailable{Feature: "role sync"})
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		s.fail(w, &ErrValidation{Field: "id", Message: "must be a positive integer"})
		return
	}

	summary, err := s.opts.Syncer.SyncRole(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, summary)
}
