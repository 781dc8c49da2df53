package sweep

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"soce-backend/lib/amount"
	"soce-backend/lib/scrapers/soce"
	"soce-backend/lib/testutil"
	"soce-backend/services/sweep/db"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const offerPage = `<html><body>
<div>Proceso de contratacion NIC-54321-2024-7</div>
<table>
  <tr><td>Razón Social:</td><td>PROVEEDOR UNO CIA. LTDA.</td></tr>
  <tr><td>Correo electrónico:</td><td>uno@proveedor.ec</td></tr>
</table>
<table>
  <tr><td>No.</td><td>Descripción del Producto</td><td>Unidad</td>
      <td>Cantidad</td><td>V. Unitario</td><td>V. Total</td><td></td></tr>
  <tr><td>1</td><td>GUANTES DE NITRILO</td><td>Caja</td>
      <td>10</td><td>5.00</td><td>50.00</td><td></td></tr>
  <tr><td>2</td><td>MASCARILLAS KN95</td><td>Caja</td>
      <td>20</td><td>5.00</td><td>100.00</td><td></td></tr>
  <tr><td colspan="5">TOTAL:</td><td>150.00</td><td></td></tr>
</table>
<table>
  <tr><td>acta_entrega.pdf</td>
      <td><a href="../../DocumentosProcesos/ExeGENBajarArchivoGeneral.cpe?id=5">descargar</a></td></tr>
</table>
</body></html>`

const noOfferPage = `<html><body>
<div>Proceso de contratacion NIC-54321-2024-7</div>
<table>
  <tr><td>No.</td><td>Descripción del Producto</td><td>Unidad</td>
      <td>Cantidad</td><td>V. Unitario</td><td>V. Total</td><td></td></tr>
  <tr><td colspan="5">TOTAL:</td><td>0.00</td><td></td></tr>
</table>
</body></html>`

var testFormat = soce.AmountFormat{
	Quantity:  amount.SepDot,
	UnitPrice: amount.SepDot,
	LineTotal: amount.SepDot,
	Total:     amount.SepDot,
}

func snapshotFor(page, code, ruc string) soce.Snapshot {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		panic(err)
	}
	pageUrl, err := url.Parse("https://portal.test/ProcesoContratacion/compras/NCO/FrmNCOProformaRegistrada.cpe")
	if err != nil {
		panic(err)
	}
	return soce.Snapshot{URL: pageUrl, Doc: doc, ProcessCode: code, Ruc: ruc}
}

// fakeRenderer serves canned pages per ruc. A delay simulates a slow portal
// response and honors the per-provider deadline the way the real client
// does, by reporting a timeout.
type fakeRenderer struct {
	mu      sync.Mutex
	pages   map[string]string
	errs    map[string]error
	delays  map[string]time.Duration
	fetched []string
	onFetch func(ruc string)
}

func (f *fakeRenderer) Fetch(ctx context.Context, code, ruc string) (soce.Snapshot, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, ruc)
	delay := f.delays[ruc]
	failure := f.errs[ruc]
	page := f.pages[ruc]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return soce.Snapshot{}, &soce.ExtractError{Kind: soce.KindTimeout, Err: ctx.Err()}
		}
	}
	if failure != nil {
		return soce.Snapshot{}, failure
	}
	snap := snapshotFor(page, code, ruc)
	if f.onFetch != nil {
		f.onFetch(ruc)
	}
	return snap, nil
}

func setupSweepService(t *testing.T, renderer Renderer, options Options) (*Service, func()) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/sweep",
		DbSchema: db.Schema,
	})
	options.Format = testFormat
	if options.Pacing == 0 {
		options.Pacing = time.Millisecond
	}
	return NewService(setup.DB, renderer, options), cleanup
}

func seedProcess(t *testing.T, qry *db.Queries, code string, rucs ...string) int64 {
	t.Helper()
	ctx := context.Background()

	categoryID, err := qry.CreateCategory(ctx, db.CreateCategoryParams{Name: "cat:" + code})
	require.NoError(t, err)
	for _, ruc := range rucs {
		_, err := qry.CreateProvider(ctx, db.CreateProviderParams{
			Ruc:        ruc,
			CategoryID: sql.NullInt64{Int64: categoryID, Valid: true},
		})
		require.NoError(t, err)
	}
	processID, err := qry.CreateProcess(ctx, db.CreateProcessParams{
		Code:       code,
		CategoryID: categoryID,
		CreatedAt:  time.Now().Unix(),
	})
	require.NoError(t, err)
	return processID
}

func requireCounterIdentity(t *testing.T, sweep db.Sweep) {
	t.Helper()
	require.Equal(t, "completed", sweep.Status)
	require.True(t, sweep.FinishedAt.Valid)
	require.Equal(t, sweep.TotalProviders, sweep.Succeeded+sweep.NoData+sweep.Errored)
}

func TestSweepScenario(t *testing.T) {
	renderer := &fakeRenderer{
		pages: map[string]string{
			"1790000000001": offerPage,
			"1790000000002": noOfferPage,
		},
		errs: map[string]error{
			"1790000000003": errors.New("connection reset by peer"),
		},
	}
	service, cleanup := setupSweepService(t, renderer, Options{})
	defer cleanup()
	qry := service.Queries()

	processID := seedProcess(t, qry, "ferreteria-2024",
		"1790000000001", "1790000000002", "1790000000003")

	var lines []string
	final, err := service.StartSweep(context.Background(), processID, SinkFunc(func(msg string) {
		lines = append(lines, msg)
	}))
	require.NoError(t, err)

	requireCounterIdentity(t, final)
	require.Equal(t, int64(3), final.TotalProviders)
	require.Equal(t, int64(1), final.Succeeded)
	require.Equal(t, int64(1), final.NoData)
	require.Equal(t, int64(1), final.Errored)
	require.NotEmpty(t, lines)

	offers, err := qry.OffersForSweep(context.Background(), final.ID)
	require.NoError(t, err)
	require.Len(t, offers, 2)
	for _, offer := range offers {
		require.Equal(t, "1790000000001", offer.ProviderRuc)
		require.Equal(t, "PROVEEDOR UNO CIA. LTDA.", offer.ProviderName)
	}
	require.Equal(t, 50.0, offers[0].LineTotal)
	require.Equal(t, 100.0, offers[1].LineTotal)

	attachments, err := qry.AttachmentsForSweep(context.Background(), final.ID)
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	require.Equal(t, "acta_entrega.pdf", attachments[0].Filename)
	require.Equal(t,
		"https://portal.test/ProcesoContratacion/DocumentosProcesos/ExeGENBajarArchivoGeneral.cpe?id=5",
		attachments[0].Url)

	// the first captured NIC names the process
	process, err := qry.GetProcess(context.Background(), processID)
	require.NoError(t, err)
	require.Equal(t, "NIC-54321-2024-7", process.Name)

	// a successful extraction refreshes the provider profile
	providers, err := qry.ListProviders(context.Background())
	require.NoError(t, err)
	for _, p := range providers {
		if p.Ruc == "1790000000001" {
			require.Equal(t, "PROVEEDOR UNO CIA. LTDA.", p.Name)
			require.Equal(t, "uno@proveedor.ec", p.Email)
		}
	}
}

func TestSweepNoOfferNamesProcess(t *testing.T) {
	renderer := &fakeRenderer{
		pages: map[string]string{"1790000000002": noOfferPage},
	}
	service, cleanup := setupSweepService(t, renderer, Options{})
	defer cleanup()
	qry := service.Queries()

	processID := seedProcess(t, qry, "sin-ofertas-2024", "1790000000002")

	final, err := service.StartSweep(context.Background(), processID, nil)
	require.NoError(t, err)
	requireCounterIdentity(t, final)
	require.Equal(t, int64(1), final.NoData)
	require.Equal(t, int64(0), final.Succeeded)

	// a no-offer page still carries the NIC, and it names the process
	process, err := qry.GetProcess(context.Background(), processID)
	require.NoError(t, err)
	require.Equal(t, "NIC-54321-2024-7", process.Name)
}

func TestSweepEmptyCategory(t *testing.T) {
	service, cleanup := setupSweepService(t, &fakeRenderer{}, Options{})
	defer cleanup()

	processID := seedProcess(t, service.Queries(), "sin-proveedores")

	final, err := service.StartSweep(context.Background(), processID, nil)
	require.NoError(t, err)
	requireCounterIdentity(t, final)
	require.Equal(t, int64(0), final.TotalProviders)

	offers, err := service.Queries().OffersForSweep(context.Background(), final.ID)
	require.NoError(t, err)
	require.Empty(t, offers)
}

func TestSweepUnknownProcess(t *testing.T) {
	service, cleanup := setupSweepService(t, &fakeRenderer{}, Options{})
	defer cleanup()

	_, err := service.StartSweep(context.Background(), 404, nil)
	require.Error(t, err)
}

func TestSweepTimeoutIsolation(t *testing.T) {
	renderer := &fakeRenderer{
		pages: map[string]string{
			"1790000000002": offerPage,
		},
		delays: map[string]time.Duration{
			"1790000000001": time.Second * 30,
		},
	}
	service, cleanup := setupSweepService(t, renderer, Options{
		ProviderTimeout: time.Millisecond * 50,
	})
	defer cleanup()

	processID := seedProcess(t, service.Queries(), "lento",
		"1790000000001", "1790000000002")

	begin := time.Now()
	final, err := service.StartSweep(context.Background(), processID, nil)
	require.NoError(t, err)

	// the stuck provider costs at most its deadline, never the full delay
	require.Less(t, time.Since(begin), time.Second*5)
	requireCounterIdentity(t, final)
	require.Equal(t, int64(1), final.Errored)
	require.Equal(t, int64(1), final.Succeeded)
}

func TestSweepAppendOnly(t *testing.T) {
	renderer := &fakeRenderer{
		pages: map[string]string{"1790000000001": offerPage},
	}
	service, cleanup := setupSweepService(t, renderer, Options{})
	defer cleanup()
	qry := service.Queries()

	processID := seedProcess(t, qry, "historia", "1790000000001")

	first, err := service.StartSweep(context.Background(), processID, nil)
	require.NoError(t, err)
	second, err := service.StartSweep(context.Background(), processID, nil)
	require.NoError(t, err)

	require.Greater(t, second.ID, first.ID)
	requireCounterIdentity(t, first)
	requireCounterIdentity(t, second)

	latest, err := qry.LatestSweepForProcess(context.Background(), processID)
	require.NoError(t, err)
	require.Equal(t, second.ID, latest.ID)

	// the first sweep's rows are untouched history
	offers, err := qry.OffersForSweep(context.Background(), first.ID)
	require.NoError(t, err)
	require.Len(t, offers, 2)

	sweeps, err := qry.ListSweepsForProcess(context.Background(), processID)
	require.NoError(t, err)
	require.Len(t, sweeps, 2)
}

// gateRenderer blocks every fetch until released, so a sweep can be held
// open while a duplicate start is attempted.
type gateRenderer struct {
	startedOnce sync.Once
	started     chan struct{}
	release     chan struct{}
}

func (g *gateRenderer) Fetch(ctx context.Context, code, ruc string) (soce.Snapshot, error) {
	g.startedOnce.Do(func() { close(g.started) })
	select {
	case <-g.release:
	case <-ctx.Done():
		return soce.Snapshot{}, &soce.ExtractError{Kind: soce.KindTimeout, Err: ctx.Err()}
	}
	return snapshotFor(noOfferPage, code, ruc), nil
}

func TestSweepDuplicateRunGuard(t *testing.T) {
	renderer := &gateRenderer{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	service, cleanup := setupSweepService(t, renderer, Options{})
	defer cleanup()
	qry := service.Queries()

	processID := seedProcess(t, qry, "guardia", "1790000000001")
	// zero providers, so the gate never blocks this one
	otherID := seedProcess(t, qry, "otro")

	done := make(chan error, 1)
	go func() {
		_, err := service.StartSweep(context.Background(), processID, nil)
		done <- err
	}()
	<-renderer.started

	_, err := service.StartSweep(context.Background(), processID, nil)
	require.ErrorIs(t, err, ErrSweepRunning)

	// a different process is not blocked by the guard
	final, err := service.StartSweep(context.Background(), otherID, nil)
	require.NoError(t, err)
	requireCounterIdentity(t, final)

	close(renderer.release)
	require.NoError(t, <-done)
}

func TestSweepCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	renderer := &fakeRenderer{
		pages: map[string]string{
			"1790000000001": offerPage,
			"1790000000002": offerPage,
			"1790000000003": offerPage,
		},
	}
	// cancel after the first provider's page comes back; the loop must stop
	// at the provider boundary and still finalize
	renderer.onFetch = func(string) { cancel() }

	service, cleanup := setupSweepService(t, renderer, Options{})
	defer cleanup()

	processID := seedProcess(t, service.Queries(), "cancelado",
		"1790000000001", "1790000000002", "1790000000003")

	final, err := service.StartSweep(ctx, processID, nil)
	require.NoError(t, err)

	require.Equal(t, "completed", final.Status)
	require.True(t, final.FinishedAt.Valid)
	require.Equal(t, int64(3), final.TotalProviders)
	require.Equal(t, int64(1), final.Succeeded)
	require.Equal(t, int64(1), final.Succeeded+final.NoData+final.Errored)
	require.Len(t, renderer.fetched, 1)
}

func TestDeleteProcessCascades(t *testing.T) {
	rndm := rand.New(rand.NewSource(7))
	ruc := testutil.RandomRuc(rndm)
	renderer := &fakeRenderer{
		pages: map[string]string{ruc: offerPage},
	}
	service, cleanup := setupSweepService(t, renderer, Options{})
	defer cleanup()
	qry := service.Queries()

	processID := seedProcess(t, qry, "borrable-"+testutil.RandomString(rndm, 6), ruc)

	final, err := service.StartSweep(context.Background(), processID, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), final.Succeeded)

	require.NoError(t, service.DeleteProcess(context.Background(), processID))

	_, err = qry.GetProcess(context.Background(), processID)
	require.ErrorIs(t, err, sql.ErrNoRows)
	offers, err := qry.OffersForSweep(context.Background(), final.ID)
	require.NoError(t, err)
	require.Empty(t, offers)
	attachments, err := qry.AttachmentsForSweep(context.Background(), final.ID)
	require.NoError(t, err)
	require.Empty(t, attachments)
	sweeps, err := qry.ListSweepsForProcess(context.Background(), processID)
	require.NoError(t, err)
	require.Empty(t, sweeps)
}
