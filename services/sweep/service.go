package sweep

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"soce-backend/lib/scrapers/soce"
	"soce-backend/services/sweep/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/sweep")

// ErrSweepRunning is returned when a sweep is started for a process that
// already has one in flight.
var ErrSweepRunning = errors.New("a sweep for this process is already running")

// Renderer loads the proforma page for one (process, provider) pair.
// *soce.Client satisfies it; tests substitute fixture snapshots.
type Renderer interface {
	Fetch(ctx context.Context, processCode, ruc string) (soce.Snapshot, error)
}

type SmtpConfig struct {
	Server       string
	Port         int
	EmailAddress string
	Password     string
	// completion summaries go here; empty disables notification
	NotifyAddress string
}

type Options struct {
	// hard per-provider deadline, defaults to 60s
	ProviderTimeout time.Duration
	// fixed delay between providers, defaults to 2s. This is part of the
	// contract with the portal, not an optimization.
	Pacing time.Duration
	Format soce.AmountFormat
	Smtp   SmtpConfig
}

type Service struct {
	db       *sql.DB
	qry      *db.Queries
	renderer Renderer
	options  Options

	runningMu sync.Mutex
	running   map[int64]struct{}
}

func NewService(database *sql.DB, renderer Renderer, options Options) *Service {
	if options.ProviderTimeout == 0 {
		options.ProviderTimeout = time.Second * 60
	}
	if options.Pacing == 0 {
		options.Pacing = time.Second * 2
	}
	return &Service{
		db:       database,
		qry:      db.New(database),
		renderer: renderer,
		options:  options,
		running:  map[int64]struct{}{},
	}
}

// Queries exposes the catalog store for read paths and data-entry commands.
func (s *Service) Queries() *db.Queries {
	return s.qry
}

// acquire marks a process as having a sweep in flight. The guard is keyed by
// process id, never by caller session, so two callers cannot start duplicate
// sweeps for the same process while sweeps for different processes proceed
// independently.
func (s *Service) acquire(processID int64) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if _, ok := s.running[processID]; ok {
		return ErrSweepRunning
	}
	s.running[processID] = struct{}{}
	return nil
}

func (s *Service) release(processID int64) {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	delete(s.running, processID)
}

// DeleteProcess removes a process together with its sweep history. Offers
// and attachments of every sweep go first, then the sweeps, then the process
// row itself, all in one transaction.
func (s *Service) DeleteProcess(ctx context.Context, processID int64) error {
	ctx, span := tracer.Start(ctx, "DeleteProcess")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	if err := txqry.DeleteProcessAttachments(ctx, processID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if err := txqry.DeleteProcessOffers(ctx, processID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if err := txqry.DeleteProcessSweeps(ctx, processID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if err := txqry.DeleteProcess(ctx, processID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := tx.Commit(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// LatestSweep returns the newest sweep of a process with its offers and
// attachments. "Current" data for a process is always the most recently
// created sweep, earlier sweeps are history.
func (s *Service) LatestSweep(ctx context.Context, processID int64) (db.Sweep, []db.Offer, []db.Attachment, error) {
	ctx, span := tracer.Start(ctx, "LatestSweep")
	defer span.End()

	sweep, err := s.qry.LatestSweepForProcess(ctx, processID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return db.Sweep{}, nil, nil, fmt.Errorf("latest sweep for process %d: %w", processID, err)
	}
	offers, err := s.qry.OffersForSweep(ctx, sweep.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return db.Sweep{}, nil, nil, err
	}
	attachments, err := s.qry.AttachmentsForSweep(ctx, sweep.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return db.Sweep{}, nil, nil, err
	}
	return sweep, offers, attachments, nil
}
