package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jonathan/interview-sync/internal/chat"
	"github.com/jonathan/interview-sync/internal/portal"
	"github.com/jonathan/interview-sync/internal/transcript"
)

const saveTimeout = time.Minute

// MessageRequest is a candidate reply.
type MessageRequest struct {
	Content string `json:"content" validate:"required,max=10000"`
}

// MessageResponse returns the assistant turns sent after a reply.
type MessageResponse struct {
	Messages  []transcript.Message `json:"messages"`
	Complete  bool                 `json:"complete"`
	Saved     bool                 `json:"saved,omitempty"`
	SaveError string               `json:"save_error,omitempty"`
}

// handleStartSession opens a chat session from portal link parameters.
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	if s.opts.Sessions == nil {
		s.fail(w, &ErrUnavailable{Feature: "chat"})
		return
	}

	var req chat.StartRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}

	if s.opts.Portal != nil {
		params := portal.Params{Role: req.Role, Candidate: req.Candidate, InterviewID: req.InterviewID}
		if err := s.opts.Portal.Verify(req.Token, params); err != nil {
			s.fail(w, &ErrUnauthorized{Err: err})
			return
		}
	}

	sess := s.opts.Sessions.Start(r.Context(), req)
	view := sess.View()
	if view.Complete {
		s.save(r.Context(), sess)
	}
	s.jsonResponse(w, http.StatusCreated, view)
}

// handleGetSession returns a session snapshot.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.View())
}

// handlePostMessage records a reply and, once the last question is
// answered, saves the transcript.
func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	var req MessageRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}

	replies, err := sess.Reply(req.Content)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := MessageResponse{Messages: replies, Complete: sess.Complete()}
	if resp.Complete && s.opts.Saver != nil {
		if err := s.save(r.Context(), sess); err != nil {
			resp.SaveError = err.Error()
		} else {
			resp.Saved = true
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) session(r *http.Request) (*chat.Session, error) {
	if s.opts.Sessions == nil {
		return nil, &ErrUnavailable{Feature: "chat"}
	}
	id := r.PathValue("id")
	sess, err := s.opts.Sessions.Get(id)
	if err != nil {
		return nil, &ErrNotFound{Kind: "session", ID: id}
	}
	return sess, nil
}

// save runs the transcript sinks. It is detached from the request so a
// client hanging up does not abort the write.
func (s *Server) save(ctx context.Context, sess *chat.Session) error {
	if s.opts.Saver == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	t := sess.Transcript()
	if err := s.opts.Saver.Save(ctx, t); err != nil {
		log.Printf("[CHAT] Saving transcript %s failed: %v", t.ID, err)
		return err
	}
	log.Printf("[CHAT] Saved transcript %s (%s, %s, %d answers)", t.ID, t.Candidate, t.Role, len(t.Answers()))
	return nil
}
