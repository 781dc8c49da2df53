package sweep

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"soce-backend/lib/scrapers/soce"
	"soce-backend/services/sweep/db"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// StartSweep runs the full pipeline for one process synchronously: every
// provider of the process's category is fetched, extracted and persisted in
// iteration order, one at a time, with fixed pacing in between. Per-provider
// failures are absorbed into counters; the sweep always finishes as
// completed. Only an unknown process or category fails fast, before a sweep
// row exists. Cancelling ctx stops the loop at the next provider boundary
// and finalizes with whatever counters have accumulated.
func (s *Service) StartSweep(ctx context.Context, processID int64, sink ProgressSink) (db.Sweep, error) {
	ctx, span := tracer.Start(ctx, "StartSweep")
	defer span.End()
	span.SetAttributes(attribute.Int64("process_id", processID))

	if sink == nil {
		sink = SinkFunc(func(string) {})
	}

	if err := s.acquire(processID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return db.Sweep{}, err
	}
	defer s.release(processID)

	process, err := s.qry.GetProcess(ctx, processID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unknown process")
		return db.Sweep{}, fmt.Errorf("unknown process %d: %w", processID, err)
	}
	category, err := s.qry.GetCategory(ctx, process.CategoryID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "process has no category")
		return db.Sweep{}, fmt.Errorf("category %d of process %d: %w", process.CategoryID, processID, err)
	}
	providers, err := s.qry.ProvidersInCategory(ctx, sql.NullInt64{Int64: category.ID, Valid: true})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return db.Sweep{}, err
	}

	sweepID, err := s.qry.CreateSweep(ctx, db.CreateSweepParams{
		ProcessID:  process.ID,
		CategoryID: category.ID,
		StartedAt:  time.Now().Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return db.Sweep{}, err
	}
	err = s.qry.SetSweepTotal(ctx, db.SetSweepTotalParams{
		TotalProviders: int64(len(providers)),
		ID:             sweepID,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return db.Sweep{}, err
	}

	sink.Report(fmt.Sprintf("sweep started: %d providers in category %q", len(providers), category.Name))

	var succeeded, noData, errored int
	processNamed := process.Name != ""
	var elapsed time.Duration

	for i, provider := range providers {
		if ctx.Err() != nil {
			slog.WarnContext(ctx, "sweep cancelled, finalizing with partial counters",
				"sweep", sweepID, "processed", i, "total", len(providers))
			break
		}

		label := provider.Ruc
		if provider.Name != "" {
			label += " " + provider.Name
		}
		sink.Report(fmt.Sprintf("(%d/%d) processing %s", i+1, len(providers), label))

		begin := time.Now()
		result, err := s.scrapeProvider(ctx, process.Code, provider.Ruc)
		elapsed += time.Since(begin)

		if err != nil && errors.Is(err, context.Canceled) && ctx.Err() != nil {
			// cancelled mid-fetch, the in-flight provider stays uncounted
			continue
		}

		// a provider that made it through extraction is persisted and
		// counted even when cancellation landed mid-scrape
		resultCtx := context.WithoutCancel(ctx)

		switch {
		case err == nil:
			if err := s.persistResult(resultCtx, sweepID, provider, result); err != nil {
				slog.ErrorContext(ctx, "failed to persist provider result",
					"sweep", sweepID, "ruc", provider.Ruc, "err", err)
				errored++
				s.countErrored(resultCtx, sweepID)
				break
			}
			succeeded++
			if !processNamed {
				processNamed = s.nameProcess(resultCtx, process.ID, result.Nic)
			}
			s.refreshProvider(resultCtx, provider, result.Provider)

		case isNoData(err):
			noData++
			if err := s.qry.IncrementSweepNoData(resultCtx, sweepID); err != nil {
				slog.ErrorContext(ctx, "failed to count no-data provider",
					"sweep", sweepID, "ruc", provider.Ruc, "err", err)
			}
			// a no-offer page still carries the NIC
			if !processNamed {
				processNamed = s.nameProcess(resultCtx, process.ID, result.Nic)
			}

		default:
			slog.WarnContext(ctx, "provider scrape failed",
				"sweep", sweepID, "ruc", provider.Ruc, "err", err)
			errored++
			s.countErrored(resultCtx, sweepID)
		}

		sink.Report(progressLine(i+1, len(providers), succeeded, noData, errored, elapsed))

		if i < len(providers)-1 {
			select {
			case <-time.After(s.options.Pacing):
			case <-ctx.Done():
			}
		}
	}

	// finalization must land even when the sweep was cancelled
	finalizeCtx := context.WithoutCancel(ctx)
	err = s.qry.FinishSweep(finalizeCtx, db.FinishSweepParams{
		FinishedAt: sql.NullInt64{Int64: time.Now().Unix(), Valid: true},
		ID:         sweepID,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to finalize sweep")
		return db.Sweep{}, err
	}

	final, err := s.qry.GetSweep(finalizeCtx, sweepID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return db.Sweep{}, err
	}

	sink.Report(fmt.Sprintf("sweep finished: %d with offers, %d without data, %d errors",
		final.Succeeded, final.NoData, final.Errored))
	s.notifyCompletion(ctx, process, final)

	span.SetAttributes(
		attribute.Int64("succeeded", final.Succeeded),
		attribute.Int64("no_data", final.NoData),
		attribute.Int64("errored", final.Errored),
	)
	return final, nil
}

// scrapeProvider runs fetch+extract under the hard per-provider deadline.
// On expiry the in-flight request is cancelled and the error classifies as
// a timeout, the loop moves on to the next provider.
func (s *Service) scrapeProvider(ctx context.Context, code, ruc string) (soce.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.options.ProviderTimeout)
	defer cancel()

	snap, err := s.renderer.Fetch(ctx, code, ruc)
	if err != nil {
		return soce.Result{}, err
	}
	return soce.Extract(ctx, snap, s.options.Format)
}

// nameProcess renames the process after the first NIC code seen during the
// sweep. Reports whether a rename happened.
func (s *Service) nameProcess(ctx context.Context, processID int64, nic string) bool {
	if nic == "" {
		return false
	}
	if err := s.qry.RenameProcess(ctx, db.RenameProcessParams{
		Name: nic,
		ID:   processID,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to name process", "process", processID, "err", err)
		return false
	}
	return true
}

func isNoData(err error) bool {
	kind, ok := soce.KindOf(err)
	return ok && kind == soce.KindNoProforma
}

func (s *Service) countErrored(ctx context.Context, sweepID int64) {
	if err := s.qry.IncrementSweepErrored(ctx, sweepID); err != nil {
		slog.ErrorContext(ctx, "failed to count errored provider", "sweep", sweepID, "err", err)
	}
}

// persistResult writes one provider's offers and attachments together with
// its success counter increment in a single transaction, immediately after
// extraction. A crash mid-sweep loses at most the in-flight provider.
func (s *Service) persistResult(ctx context.Context, sweepID int64, provider db.Provider, result soce.Result) error {
	ctx, span := tracer.Start(ctx, "persistResult")
	defer span.End()
	span.SetAttributes(
		attribute.String("ruc", provider.Ruc),
		attribute.Int("items", len(result.Items)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	providerName := result.Provider.Name
	if providerName == "" {
		providerName = provider.Name
	}
	capturedAt := time.Now().Unix()

	for _, item := range result.Items {
		err := txqry.InsertOffer(ctx, db.InsertOfferParams{
			SweepID:      sweepID,
			ProviderRuc:  provider.Ruc,
			ProviderName: providerName,
			ItemNumber:   item.Number,
			CpcCode:      item.CpcCode,
			Description:  item.Description,
			Unit:         item.Unit,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			LineTotal:    item.LineTotal,
			CapturedAt:   capturedAt,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to insert offer row")
			return err
		}
	}
	for _, attachment := range result.Attachments {
		err := txqry.InsertAttachment(ctx, db.InsertAttachmentParams{
			SweepID:     sweepID,
			ProviderRuc: provider.Ruc,
			Filename:    attachment.Filename,
			Url:         attachment.URL,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to insert attachment row")
			return err
		}
	}
	if err := txqry.IncrementSweepSucceeded(ctx, sweepID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to count succeeded provider")
		return err
	}

	if err := tx.Commit(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// refreshProvider folds freshly scraped contact fields back into the
// provider profile. Scraped values win, existing values fill the gaps.
// Failures are logged and ignored, the profile is a convenience.
func (s *Service) refreshProvider(ctx context.Context, existing db.Provider, scraped soce.ProviderInfo) {
	pick := func(fresh, old string) string {
		if fresh != "" {
			return fresh
		}
		return old
	}

	err := s.qry.UpdateProviderProfile(ctx, db.UpdateProviderProfileParams{
		Name:     pick(scraped.Name, existing.Name),
		Email:    pick(scraped.Email, existing.Email),
		Phone:    pick(scraped.Phone, existing.Phone),
		Country:  pick(scraped.Country, existing.Country),
		Province: pick(scraped.Province, existing.Province),
		Canton:   pick(scraped.Canton, existing.Canton),
		Address:  pick(scraped.Address, existing.Address),
		Ruc:      existing.Ruc,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to refresh provider profile", "ruc", existing.Ruc, "err", err)
	}
}

func progressLine(processed, total, succeeded, noData, errored int, elapsed time.Duration) string {
	line := fmt.Sprintf("(%d/%d) ok=%d sin_datos=%d errores=%d",
		processed, total, succeeded, noData, errored)
	if remaining := total - processed; remaining > 0 && processed > 0 {
		eta := time.Duration(int64(elapsed) / int64(processed) * int64(remaining))
		line += fmt.Sprintf(" eta=%s", eta.Round(time.Second))
	}
	return line
}
