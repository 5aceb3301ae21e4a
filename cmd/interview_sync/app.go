package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/interview-sync/internal/blob"
	"github.com/jonathan/interview-sync/internal/chat"
	"github.com/jonathan/interview-sync/internal/config"
	"github.com/jonathan/interview-sync/internal/cvsync"
	"github.com/jonathan/interview-sync/internal/db"
	"github.com/jonathan/interview-sync/internal/interviews"
	"github.com/jonathan/interview-sync/internal/observability"
	"github.com/jonathan/interview-sync/internal/portal"
	"github.com/jonathan/interview-sync/internal/questions"
	"github.com/jonathan/interview-sync/internal/records"
	"github.com/jonathan/interview-sync/internal/shortlist"
	"github.com/jonathan/interview-sync/internal/transcript"
)

// app holds the collaborators shared by the commands.
type app struct {
	cfg   *config.Config
	store *records.Client
	pool  *questions.Pool
	links *portal.Builder
	// archive is nil unless a database URL is configured.
	archive *db.DB
	// printer, when set, receives a summary of each one-shot run.
	printer *observability.Printer
}

// loadApp reads the configuration and connects the record store. The
// Postgres archive is optional; failing to reach a configured one is fatal.
func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	store, err := records.NewClient(records.Options{
		BaseURL:  cfg.RecordStore.BaseURL,
		Token:    cfg.RecordStore.Token,
		Timeout:  cfg.RecordStore.Timeout.Duration(),
		PageSize: cfg.RecordStore.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create record store client: %w", err)
	}

	pool, err := questions.NewPool(cfg.Questions.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	links := portal.NewBuilder(cfg.Portal.BaseURL, cfg.Portal.SigningKey)
	links.TokenTTL = cfg.Portal.TokenTTL.Duration()

	a := &app{cfg: cfg, store: store, pool: pool, links: links}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, err
		}
		a.archive = database
		log.Printf("Connected to archive database")
	}
	return a, nil
}

func (a *app) Close() {
	if a.archive != nil {
		a.archive.Close()
	}
}

func (a *app) rankPolicy() (interviews.RankPolicy, error) {
	allow := interviews.NewAllowList(a.cfg.Rank.AllowList...)
	if a.cfg.Rank.AllowListFile != "" {
		fromFile, err := interviews.LoadAllowList(a.cfg.Rank.AllowListFile)
		if err != nil {
			return nil, err
		}
		for name := range fromFile {
			allow[name] = struct{}{}
		}
	}
	if len(allow) == 0 {
		return nil, nil
	}
	return allow, nil
}

func (a *app) reconciler() (*interviews.Reconciler, error) {
	policy, err := a.rankPolicy()
	if err != nil {
		return nil, err
	}
	cfg := interviews.Config{
		Tables: interviews.Tables{
			Jobs:                   a.cfg.Tables.Jobs,
			Candidates:             a.cfg.Tables.Candidates,
			Interviews:             a.cfg.Tables.Interviews,
			InterviewCandidateLink: a.cfg.Tables.InterviewCandidateLink,
		},
		Fields:        a.cfg.Fields,
		QuestionCount: a.cfg.Questions.Count,
		DueIn:         a.cfg.Schedule.DueIn.Duration(),
		LinkDelay:     a.cfg.Schedule.LinkDelay.Duration(),
	}
	return interviews.NewReconciler(a.store, cfg, a.pool, a.links, policy), nil
}

func (a *app) linker() *shortlist.Linker {
	return shortlist.NewLinker(a.store, shortlist.Config{
		JobsTable:       a.cfg.Tables.Jobs,
		CandidatesTable: a.cfg.Tables.Candidates,
		InterviewsTable: a.cfg.Tables.Interviews,
		LinkField:       a.cfg.Tables.JobShortlistLink,
		MinRank:         a.cfg.Shortlist.MinRank,
		Fields:          a.cfg.Fields,
	})
}

func (a *app) blobStore(ctx context.Context) (blob.Store, error) {
	return blob.New(ctx, a.cfg.Blob)
}

func (a *app) syncer(ctx context.Context) (*cvsync.Syncer, error) {
	store, err := a.blobStore(ctx)
	if err != nil {
		return nil, err
	}
	return cvsync.NewSyncer(a.store, store, cvsync.Config{
		JobsTable:   a.cfg.Tables.Jobs,
		WorkDir:     a.cfg.CVSync.WorkDir,
		Concurrency: a.cfg.CVSync.Concurrency,
		Delay:       a.cfg.CVSync.Delay.Duration(),
		Fields:      a.cfg.Fields,
	}), nil
}

// saver writes finished transcripts to disk, the interview row, blob
// storage and, when configured, the archive.
func (a *app) saver(ctx context.Context) (*transcript.Saver, error) {
	store, err := a.blobStore(ctx)
	if err != nil {
		return nil, err
	}
	sinks := []transcript.Sink{
		transcript.NewFileSink(a.cfg.Server.TranscriptDir),
		&transcript.RecordSink{Store: a.store, Table: a.cfg.Tables.Interviews, Fields: a.cfg.Fields},
		&transcript.BlobSink{Store: store},
	}
	if a.archive != nil {
		sinks = append(sinks, &transcript.ArchiveSink{Archive: a.archive})
	}
	return transcript.NewSaver(sinks...), nil
}

func (a *app) chatManager() *chat.Manager {
	script := chat.Script{Platform: a.cfg.Chat.Platform, Company: a.cfg.Chat.Company}
	source := &chat.RecordQuestions{Store: a.store, Table: a.cfg.Tables.Interviews, Fields: a.cfg.Fields}
	return chat.NewManager(script, source, a.pool, a.cfg.Questions.Count)
}

// archiveCycle stores a cycle summary when the archive is enabled. Failures
// are logged only.
func (a *app) archiveCycle(ctx context.Context, c db.Cycle) {
	if a.archive == nil {
		return
	}
	if _, err := a.archive.RecordCycle(ctx, &c); err != nil {
		log.Printf("Failed to archive %s cycle: %v", c.Kind, err)
	}
}

func cycleFromReconcile(res interviews.CycleResult, err error) db.Cycle {
	c := db.Cycle{
		Kind:      db.KindReconcile,
		StartedAt: res.StartedAt,
		Duration:  res.Duration,
		Pairs:     res.Pairs,
		Created:   res.Created,
		Skipped:   res.Skipped,
		Failed:    res.Failed,
		Linked:    res.Linked,
	}
	if err != nil {
		msg := err.Error()
		c.Error = &msg
	}
	return c
}

func cycleFromRank(started time.Time, res interviews.RankResult, err error) db.Cycle {
	c := db.Cycle{
		Kind:      db.KindRank,
		StartedAt: started,
		Duration:  time.Since(started),
		Pairs:     res.Checked,
		Created:   len(res.Promoted),
		Failed:    res.Failed,
	}
	if err != nil {
		msg := err.Error()
		c.Error = &msg
	}
	return c
}

func cycleFromShortlist(started time.Time, res shortlist.Result, err error) db.Cycle {
	c := db.Cycle{
		Kind:      db.KindShortlist,
		StartedAt: started,
		Duration:  time.Since(started),
		Pairs:     res.HighRated,
		Linked:    res.LinkedJobs,
		Skipped:   res.Unmatched,
		Failed:    res.FailedLinks,
	}
	if err != nil {
		msg := err.Error()
		c.Error = &msg
	}
	return c
}
