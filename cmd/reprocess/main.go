// Command reprocess re-runs classification, header extraction and decoding for
// stored documents, replacing their decoded records.
// Usage: go run ./cmd/reprocess --all [--form-type form_104] [--dry-run]
//
//	go run ./cmd/reprocess --id <uuid>
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"taxdecl/internal/config"
	"taxdecl/internal/domain"
	"taxdecl/internal/extract"
	"taxdecl/internal/lock"
	"taxdecl/internal/logging"
	"taxdecl/internal/port"
	"taxdecl/internal/repository/postgres"
	"taxdecl/internal/service"
	localstorage "taxdecl/internal/storage/local"
	s3storage "taxdecl/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("reprocess failed")
	}
}

func run() error {
	id := pflag.String("id", "", "reprocess a single document")
	all := pflag.Bool("all", false, "reprocess every stored document")
	formType := pflag.String("form-type", "", "with --all, only documents of this form type")
	dryRun := pflag.Bool("dry-run", false, "list the documents that would be reprocessed")
	pflag.Parse()

	if (*id == "") == !*all {
		return errors.New("exactly one of --id or --all is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(cfg.Log).WithField("component", "reprocess")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	docRepo := postgres.NewDocumentRepo(db)

	ids, err := targets(ctx, docRepo, *id, *formType)
	if err != nil {
		return err
	}
	logger.WithField("count", len(ids)).Info("documents selected")

	if *dryRun {
		for _, docID := range ids {
			fmt.Println(docID)
		}
		return nil
	}

	var storage port.ObjectStorage
	if cfg.Storage.Provider == "s3" {
		storage, err = s3storage.NewS3Client(ctx, &cfg.S3)
	} else {
		storage, err = localstorage.NewDiskStorage(cfg.Storage.LocalDir)
	}
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	// Reprocessing never runs duplicate detection, so locks stay local.
	procSvc := service.NewProcessingService(
		docRepo, postgres.NewDuplicateFinderRepo(db), storage,
		extract.NewPDFExtractor(), lock.NewLocalLocker(), cfg, logger,
	)

	var completed, failed int
	for _, docID := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		doc, err := procSvc.Reprocess(ctx, docID)
		if err != nil {
			logger.WithError(err).WithField("document_id", docID).Warn("reprocess failed")
			failed++
			continue
		}
		entry := logger.WithFields(logrus.Fields{
			"document_id": docID,
			"form_type":   doc.FormType,
			"status":      doc.Status,
		})
		if doc.Status == domain.StatusCompleted {
			completed++
			entry.Debug("reprocessed")
		} else {
			failed++
			entry.Warn("reprocessed with failure")
		}
	}

	logger.WithFields(logrus.Fields{"completed": completed, "failed": failed}).Info("reprocess complete")
	return nil
}

func targets(ctx context.Context, repo port.DocumentRepository, id, formType string) ([]uuid.UUID, error) {
	if id != "" {
		docID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid --id: %w", err)
		}
		return []uuid.UUID{docID}, nil
	}

	var filter port.DocumentFilter
	if formType != "" {
		ft := domain.FormType(formType)
		if !ft.Valid() {
			return nil, fmt.Errorf("invalid --form-type %q: %w", formType, domain.ErrInvalidFormType)
		}
		filter.FormType = &ft
	}
	ids, err := repo.ListIDs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return ids, nil
}
