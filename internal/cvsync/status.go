package cvsync

import (
	"context"
	"fmt"

	"github.com/jonathan/interview-sync/internal/records"
	"github.com/jonathan/interview-sync/internal/types"
)

// RoleStatus summarizes one role row.
type RoleStatus struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Client         string `json:"client,omitempty"`
	Status         string `json:"status,omitempty"`
	CVs            int    `json:"cvs"`
	JDFiles        int    `json:"jd_files"`
	HasDescription bool   `json:"has_description"`
}

// Status reads a role and counts its linked files.
func (s *Syncer) Status(ctx context.Context, roleID int) (RoleStatus, error) {
	rec, err := s.src.Get(ctx, s.cfg.JobsTable, roleID)
	if err != nil {
		return RoleStatus{}, fmt.Errorf("failed to fetch role %d: %w", roleID, err)
	}
	job := types.JobFromRecord(rec, s.cfg.Fields)
	cvs := 0
	for _, c := range job.Candidates {
		cvs += len(c.CVs)
	}
	return RoleStatus{
		ID:             roleID,
		Title:          job.Title,
		Client:         job.Client,
		Status:         job.Status,
		CVs:            cvs,
		JDFiles:        len(job.JDFiles),
		HasDescription: job.Description != "",
	}, nil
}

// StatusWriter patches a role row.
type StatusWriter interface {
	Update(ctx context.Context, tableID string, fields records.Record) error
}

// SetStatus writes the job status column of a role.
func (s *Syncer) SetStatus(ctx context.Context, w StatusWriter, roleID int, status string) error {
	fields := records.Record{
		records.IDField:        roleID,
		s.cfg.Fields.JobStatus: status,
	}
	if err := w.Update(ctx, s.cfg.JobsTable, fields); err != nil {
		return fmt.Errorf("failed to set status of role %d: %w", roleID, err)
	}
	return nil
}
