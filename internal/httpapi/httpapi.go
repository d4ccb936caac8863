// Package httpapi implements the HTTP surface of spec.md §6: health,
// export creation, download streaming, and the benchmark route, wired
// together with the stdlib enhanced ServeMux the way the teacher's own
// metrics server builds its routes.
package httpapi

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"github.com/23A91A0565/polystreamx/internal/apperr"
	"github.com/23A91A0565/polystreamx/internal/bench"
	"github.com/23A91A0565/polystreamx/internal/compress"
	"github.com/23A91A0565/polystreamx/internal/model"
	"github.com/23A91A0565/polystreamx/internal/pipeline"
	"github.com/23A91A0565/polystreamx/internal/registry"
)

// Server holds the dependencies every handler needs.
type Server struct {
	pool           *pgxpool.Pool
	registry       *registry.Registry
	driver         *pipeline.Driver
	log            *zap.Logger
	exportRowLimit int64
	benchRowLimit  int64
}

// New builds a Server and the *http.ServeMux routing spec.md §6's surface.
// Exact paths (/exports/benchmark) take precedence over the wildcard
// download route under Go's enhanced ServeMux, resolving the route-
// ordering Open Question named in spec.md §9 without a third-party router.
func New(pool *pgxpool.Pool, reg *registry.Registry, log *zap.Logger, exportRowLimit, benchRowLimit int64) *http.ServeMux {
	s := &Server{
		pool:           pool,
		registry:       reg,
		driver:         pipeline.New(pool, reg),
		log:            log,
		exportRowLimit: exportRowLimit,
		benchRowLimit:  benchRowLimit,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /exports", s.handleCreate)
	mux.HandleFunc("GET /exports/benchmark", s.handleBenchmark)
	mux.HandleFunc("GET /exports/{id}/download", s.handleDownload)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job := s.registry.Create(req)
	writeJSON(w, http.StatusCreated, map[string]any{
		"exportId": job.ID,
		"status":   job.Status,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job, err := s.registry.Get(id)
	if err != nil {
		status, msg := apperr.Resolve(err)
		writeError(w, status, msg)
		return
	}

	format := job.Request.Format
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "export_"+job.ID+"."+format.Extension()))
	if enc := compress.ContentEncoding(job.Request.Compression); enc != "" {
		w.Header().Set("Content-Encoding", enc)
	}

	// The 200 status is latched on the first successful write, not written
	// up front, so a stage failure before any byte leaves the wire (e.g.
	// CursorFailed on connect, EncoderFailed during WriteHeader) still has
	// a chance to surface as a proper 500 + JSON body, per spec.md §4.9/§7.
	sink := &firstByteWriter{w: w}
	if err := s.driver.Run(r.Context(), job, s.exportRowLimit, sink); err != nil {
		s.log.Warn("export stream ended with error", zap.String("job_id", job.ID), zap.Error(err))
		if !sink.started {
			status, msg := apperr.Resolve(err)
			writeError(w, status, msg)
		}
		// Otherwise bytes are already committed: truncating the connection
		// is the legitimate error signal spec.md §4.9 calls for.
	}
}

// firstByteWriter defers committing the response's status line until the
// first successful Write, so handleDownload can still choose between a
// well-formed 500 error body and a bare truncation depending on whether
// any export bytes reached the client.
type firstByteWriter struct {
	w       http.ResponseWriter
	started bool
}

func (f *firstByteWriter) Write(p []byte) (int, error) {
	if !f.started {
		f.w.WriteHeader(http.StatusOK)
		f.started = true
	}
	return f.w.Write(p)
}

func (s *Server) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	rowCount, err := bench.CountRecords(r.Context(), s.pool)
	if err != nil {
		status, msg := apperr.Resolve(fmt.Errorf("%w: count records: %v", apperr.ErrCursorFailed, err))
		writeError(w, status, msg)
		return
	}

	results := bench.Run(r.Context(), s.pool, s.benchRowLimit)

	payload := make([]map[string]any, 0, len(results))
	for _, res := range results {
		entry := map[string]any{
			"format":          res.Format,
			"durationSeconds": roundTo(res.Duration.Seconds(), 2),
			"bytes":           res.OutputBytes,
			"peakMegabytes":   roundTo(res.PeakAllocMiB, 2),
		}
		if res.Error != "" {
			entry["error"] = res.Error
		}
		payload = append(payload, entry)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"datasetRowCount": rowCount,
		"results":         payload,
	})
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
