package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"soce-backend/services/sweep"
	"soce-backend/services/sweep/db"
)

// Server is the read/stream surface consumed by the UI: process listings,
// the latest sweep of a process, and an SSE endpoint that runs a sweep while
// streaming its progress.
type Server struct {
	service *sweep.Service
}

func New(service *sweep.Service) *Server {
	return &Server{service: service}
}

func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/processes", s.handleListProcesses)
	mux.HandleFunc("GET /api/processes/{id}/latest", s.handleLatestSweep)
	mux.HandleFunc("GET /api/sweeps/{id}/run", s.handleRunSweep)
	return mux
}

type processView struct {
	Id        int64  `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

type sweepView struct {
	Id             int64  `json:"id"`
	ProcessId      int64  `json:"processId"`
	StartedAt      int64  `json:"startedAt"`
	FinishedAt     *int64 `json:"finishedAt"`
	Status         string `json:"status"`
	TotalProviders int64  `json:"totalProviders"`
	Succeeded      int64  `json:"succeeded"`
	NoData         int64  `json:"noData"`
	Errored        int64  `json:"errored"`
}

type offerView struct {
	ProviderRuc  string  `json:"providerRuc"`
	ProviderName string  `json:"providerName"`
	ItemNumber   string  `json:"itemNumber"`
	CpcCode      string  `json:"cpcCode"`
	Description  string  `json:"description"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	LineTotal    float64 `json:"lineTotal"`
}

type attachmentView struct {
	ProviderRuc string `json:"providerRuc"`
	Filename    string `json:"filename"`
	Url         string `json:"url"`
}

func viewSweep(row db.Sweep) sweepView {
	view := sweepView{
		Id:             row.ID,
		ProcessId:      row.ProcessID,
		StartedAt:      row.StartedAt,
		Status:         row.Status,
		TotalProviders: row.TotalProviders,
		Succeeded:      row.Succeeded,
		NoData:         row.NoData,
		Errored:        row.Errored,
	}
	if row.FinishedAt.Valid {
		view.FinishedAt = &row.FinishedAt.Int64
	}
	return view
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to encode response body", "err", err)
	}
}

func pathId(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func (s *Server) handleListProcesses(w http.ResponseWriter, r *http.Request) {
	rows, err := s.service.Queries().ListProcesses(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	views := []processView{}
	for _, row := range rows {
		views = append(views, processView{
			Id:        row.ID,
			Code:      row.Code,
			Name:      row.Name,
			CreatedAt: row.CreatedAt,
		})
	}
	writeJson(w, http.StatusOK, views)
}

func (s *Server) handleLatestSweep(w http.ResponseWriter, r *http.Request) {
	processID, err := pathId(r)
	if err != nil {
		http.Error(w, "invalid process id", http.StatusBadRequest)
		return
	}

	latest, offers, attachments, err := s.service.LatestSweep(r.Context(), processID)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "no sweeps for process", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	offerViews := []offerView{}
	for _, o := range offers {
		offerViews = append(offerViews, offerView{
			ProviderRuc:  o.ProviderRuc,
			ProviderName: o.ProviderName,
			ItemNumber:   o.ItemNumber,
			CpcCode:      o.CpcCode,
			Description:  o.Description,
			Unit:         o.Unit,
			Quantity:     o.Quantity,
			UnitPrice:    o.UnitPrice,
			LineTotal:    o.LineTotal,
		})
	}
	attachmentViews := []attachmentView{}
	for _, a := range attachments {
		attachmentViews = append(attachmentViews, attachmentView{
			ProviderRuc: a.ProviderRuc,
			Filename:    a.Filename,
			Url:         a.Url,
		})
	}

	writeJson(w, http.StatusOK, map[string]any{
		"sweep":       viewSweep(latest),
		"offers":      offerViews,
		"attachments": attachmentViews,
	})
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, data any) {
	encoded, err := json.Marshal(data)
	if err != nil {
		slog.Warn("failed to encode sse event", "event", event, "err", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, encoded)
	flusher.Flush()
}

// handleRunSweep starts a sweep for the process and streams its progress as
// server-sent events until completion. Closing the stream cancels the sweep
// at the next provider boundary; a sweep already in flight for the process
// is reported as an error event, never run twice.
func (s *Server) handleRunSweep(w http.ResponseWriter, r *http.Request) {
	processID, err := pathId(r)
	if err != nil {
		http.Error(w, "invalid process id", http.StatusBadRequest)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("content-type", "text/event-stream")
	w.Header().Set("cache-control", "no-cache")
	w.Header().Set("connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	writeEvent(w, flusher, "start", map[string]any{"processId": processID})

	progress := make(chan string, 64)
	type outcome struct {
		sweep db.Sweep
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		final, err := s.service.StartSweep(r.Context(), processID, sweep.SinkFunc(func(msg string) {
			select {
			case progress <- msg:
			default:
			}
		}))
		done <- outcome{sweep: final, err: err}
	}()

	for {
		select {
		case msg := <-progress:
			writeEvent(w, flusher, "progress", map[string]string{"message": msg})
		case result := <-done:
			// drain buffered progress before the terminal event
			for {
				select {
				case msg := <-progress:
					writeEvent(w, flusher, "progress", map[string]string{"message": msg})
					continue
				default:
				}
				break
			}
			if result.err != nil {
				writeEvent(w, flusher, "error", map[string]string{"message": result.err.Error()})
			} else {
				writeEvent(w, flusher, "result", viewSweep(result.sweep))
			}
			writeEvent(w, flusher, "done", map[string]any{})
			return
		case <-r.Context().Done():
			// client went away; StartSweep observes the same context and
			// finalizes with partial counters on its own
			<-done
			return
		}
	}
}
