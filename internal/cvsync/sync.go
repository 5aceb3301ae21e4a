// Package cvsync copies candidate CVs and job descriptions from the record
// store into blob storage, organized per role.
package cvsync

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-sync/internal/blob"
	"github.com/jonathan/interview-sync/internal/records"
	"github.com/jonathan/interview-sync/internal/types"
)

// DescriptionFile is the blob name of the converted rich-text description.
const DescriptionFile = "description.txt"

// Source is the record-store surface the syncer reads from.
type Source interface {
	List(ctx context.Context, tableID string, q *records.Query) ([]records.Record, error)
	Get(ctx context.Context, tableID string, id int) (records.Record, error)
	Download(ctx context.Context, path string) ([]byte, error)
}

// Config tunes a Syncer.
type Config struct {
	JobsTable string
	// WorkDir keeps a local copy of each downloaded CV. Empty disables it.
	WorkDir string
	// Concurrency bounds parallel downloads within a role.
	Concurrency int
	// Delay is waited before each download.
	Delay  time.Duration
	Fields types.FieldMap
}

// Summary counts the files handled by a sync.
type Summary struct {
	Roles        int `json:"roles"`
	CVsFound     int `json:"cvs_found"`
	Downloaded   int `json:"downloaded"`
	Uploaded     int `json:"uploaded"`
	JDFiles      int `json:"jd_files"`
	Descriptions int `json:"descriptions"`
	Failed       int `json:"failed"`
}

func (s *Summary) add(o Summary) {
	s.Roles += o.Roles
	s.CVsFound += o.CVsFound
	s.Downloaded += o.Downloaded
	s.Uploaded += o.Uploaded
	s.JDFiles += o.JDFiles
	s.Descriptions += o.Descriptions
	s.Failed += o.Failed
}

// Syncer copies role files to a blob store.
type Syncer struct {
	src   Source
	store blob.Store
	cfg   Config
}

// NewSyncer creates a syncer.
func NewSyncer(src Source, store blob.Store, cfg Config) *Syncer {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	cfg.Fields = cfg.Fields.WithDefaults()
	return &Syncer{src: src, store: store, cfg: cfg}
}

// SyncAll syncs every titled role.
func (s *Syncer) SyncAll(ctx context.Context) (Summary, error) {
	var total Summary
	recs, err := s.src.List(ctx, s.cfg.JobsTable, nil)
	if err != nil {
		return total, fmt.Errorf("failed to fetch roles: %w", err)
	}
	log.Printf("[CVSYNC] Found %d roles", len(recs))

	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		job := types.JobFromRecord(rec, s.cfg.Fields)
		if job.Title == "" {
			log.Printf("[CVSYNC] Role %d has no title, skipping", job.ID)
			continue
		}
		total.add(s.syncJob(ctx, job))
	}

	log.Printf("[CVSYNC] roles=%d cvs=%d downloaded=%d uploaded=%d failed=%d",
		total.Roles, total.CVsFound, total.Downloaded, total.Uploaded, total.Failed)
	return total, nil
}

// SyncRole syncs a single role by record id.
func (s *Syncer) SyncRole(ctx context.Context, roleID int) (Summary, error) {
	rec, err := s.src.Get(ctx, s.cfg.JobsTable, roleID)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to fetch role %d: %w", roleID, err)
	}
	job := types.JobFromRecord(rec, s.cfg.Fields)
	if job.Title == "" {
		return Summary{}, fmt.Errorf("role %d has no title", roleID)
	}
	return s.syncJob(ctx, job), nil
}

type cvItem struct {
	candidate types.Candidate
	file      types.Attachment
}

func (s *Syncer) syncJob(ctx context.Context, job types.Job) Summary {
	summary := Summary{Roles: 1}
	log.Printf("[CVSYNC] Processing role %d: %s (client %q)", job.ID, job.Title, job.Client)

	var items []cvItem
	for _, c := range job.Candidates {
		if len(c.CVs) == 0 {
			log.Printf("[CVSYNC] No CV files for %s", c.FullName())
		}
		for _, cv := range c.CVs {
			summary.CVsFound++
			if cv.Path == "" {
				log.Printf("[CVSYNC] CV for %s has no path", c.FullName())
				summary.Failed++
				continue
			}
			items = append(items, cvItem{candidate: c, file: cv})
		}
	}

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, item := range items {
		g.Go(func() error {
			downloaded, uploaded := s.syncCV(gCtx, job, item)
			mu.Lock()
			defer mu.Unlock()
			if downloaded {
				summary.Downloaded++
			}
			if uploaded {
				summary.Uploaded++
			} else {
				summary.Failed++
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, jd := range job.JDFiles {
		if jd.Path == "" {
			continue
		}
		data, err := s.src.Download(ctx, jd.Path)
		if err != nil {
			log.Printf("[CVSYNC] Failed to download JD %s: %v", jd.Title, err)
			summary.Failed++
			continue
		}
		name := jd.Title
		if name == "" {
			name = filepath.Base(jd.Path)
		}
		if _, err := s.store.Upload(ctx, blob.RolePath(job.ID, job.Title, blob.KindJD, name), data, jd.MimeType); err != nil {
			log.Printf("[CVSYNC] Failed to upload JD %s: %v", name, err)
			summary.Failed++
			continue
		}
		summary.JDFiles++
	}

	if job.Description != "" {
		text, err := HTMLToText(job.Description)
		if err != nil {
			log.Printf("[CVSYNC] Failed to convert description for role %d: %v", job.ID, err)
			summary.Failed++
		} else if text != "" {
			path := blob.RolePath(job.ID, job.Title, blob.KindJD, DescriptionFile)
			if _, err := s.store.Upload(ctx, path, []byte(text), "text/plain; charset=utf-8"); err != nil {
				log.Printf("[CVSYNC] Failed to upload description for role %d: %v", job.ID, err)
				summary.Failed++
			} else {
				summary.Descriptions++
			}
		}
	}

	return summary
}

func (s *Syncer) syncCV(ctx context.Context, job types.Job, item cvItem) (downloaded, uploaded bool) {
	if s.cfg.Delay > 0 {
		select {
		case <-ctx.Done():
			return false, false
		case <-time.After(s.cfg.Delay):
		}
	}

	title := item.file.Title
	if title == "" {
		title = "unknown.pdf"
	}
	name := blob.CandidateFile(item.candidate.FirstName, item.candidate.LastName, title)

	data, err := s.src.Download(ctx, item.file.Path)
	if err != nil {
		log.Printf("[CVSYNC] Failed to download CV %s: %v", name, err)
		return false, false
	}

	if s.cfg.WorkDir != "" {
		local := filepath.Join(s.cfg.WorkDir, blob.Sanitize(job.Title), name)
		if err := os.MkdirAll(filepath.Dir(local), 0755); err != nil {
			log.Printf("[CVSYNC] Failed to create %s: %v", filepath.Dir(local), err)
		} else if err := os.WriteFile(local, data, 0644); err != nil {
			log.Printf("[CVSYNC] Failed to save %s: %v", local, err)
		}
	}

	if _, err := s.store.Upload(ctx, blob.RolePath(job.ID, job.Title, blob.KindCVs, name), data, item.file.MimeType); err != nil {
		log.Printf("[CVSYNC] Failed to upload CV %s: %v", name, err)
		return true, false
	}
	return true, true
}
