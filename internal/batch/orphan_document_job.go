package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"loan-intake/internal/infrastructure/monitoring"
	"loan-intake/internal/infrastructure/storage"
)

const maxConcurrentChecks = 8

// DocumentReferenceChecker reports whether a stored filename belongs to a
// persisted loan application.
type DocumentReferenceChecker interface {
	IsDocumentReferenced(ctx context.Context, filename string) (bool, error)
}

type DocumentDirectory interface {
	List(ctx context.Context) ([]storage.StoredFile, error)
	Remove(ctx context.Context, filenames ...string) error
}

// OrphanDocumentJob removes stored documents that no application references,
// e.g. files left behind when the process died between storing the uploads
// and committing the application. Files younger than the grace period are
// skipped so in-flight submissions are never touched.
type OrphanDocumentJob struct {
	refs        DocumentReferenceChecker
	docs        DocumentDirectory
	gracePeriod time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

func NewOrphanDocumentJob(refs DocumentReferenceChecker, docs DocumentDirectory, gracePeriod time.Duration, logger *slog.Logger) *OrphanDocumentJob {
	if refs == nil || docs == nil || logger == nil {
		panic("OrphanDocumentJob dependencies cannot be nil")
	}
	if gracePeriod <= 0 {
		gracePeriod = 24 * time.Hour
	}
	return &OrphanDocumentJob{
		refs:        refs,
		docs:        docs,
		gracePeriod: gracePeriod,
		now:         time.Now,
		logger:      logger.With("job", "OrphanDocumentSweep"),
	}
}

func (j *OrphanDocumentJob) Run(ctx context.Context) error {
	err := j.sweep(ctx)
	monitoring.RecordSweepRun(err != nil)
	return err
}

func (j *OrphanDocumentJob) sweep(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting orphan document sweep.")

	files, err := j.docs.List(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list stored documents, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to list documents: %w", err)
	}

	cutoff := j.now().Add(-j.gracePeriod)
	candidates := make([]string, 0, len(files))
	for _, f := range files {
		if f.ModTime.Before(cutoff) {
			candidates = append(candidates, f.Name)
		}
	}
	j.logger.InfoContext(ctx, "Listed stored documents.", slog.Int("total", len(files)), slog.Int("past_grace_period", len(candidates)))

	if len(candidates) == 0 {
		j.logger.InfoContext(ctx, "Orphan document sweep finished.", slog.Duration("duration", time.Since(startTime)))
		return nil
	}

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		orphans      []string
		errorCount   atomic.Int32
		checkedCount atomic.Int32
		sem          = make(chan struct{}, maxConcurrentChecks)
	)

	for _, name := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(filename string) {
			defer wg.Done()
			defer func() { <-sem }()

			referenced, checkErr := j.refs.IsDocumentReferenced(ctx, filename)
			if checkErr != nil {
				j.logger.ErrorContext(ctx, "Failed to check document reference", slog.String("filename", filename), slog.Any("error", checkErr))
				errorCount.Add(1)
				return
			}
			checkedCount.Add(1)
			if !referenced {
				mu.Lock()
				orphans = append(orphans, filename)
				mu.Unlock()
			}
		}(name)
	}
	wg.Wait()

	if len(orphans) > 0 {
		if err := j.docs.Remove(ctx, orphans...); err != nil {
			j.logger.ErrorContext(ctx, "Failed to remove orphaned documents", slog.Any("error", err))
			errorCount.Add(1)
		} else {
			monitoring.RecordDocumentsRemoved(len(orphans))
		}
	}

	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("documents_checked", int(checkedCount.Load())),
		slog.Int("orphans_found", len(orphans)),
		slog.Int("errors_encountered", int(errorCount.Load())),
	)
	if n := errorCount.Load(); n > 0 {
		summaryLog.WarnContext(ctx, "Orphan document sweep finished with errors.")
		return fmt.Errorf("job completed with %d errors", n)
	}
	summaryLog.InfoContext(ctx, "Orphan document sweep finished successfully.")
	return nil
}
