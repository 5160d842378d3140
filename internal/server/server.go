// Package server exposes the claim pipeline over HTTP: NDJSON streaming
// endpoints for incremental stage delivery, JSON endpoints for one-shot
// processing, and a corpus re-ingestion trigger.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/ppiankov/claimgate/internal/model"
	"github.com/ppiankov/claimgate/internal/pipeline"
	"github.com/ppiankov/claimgate/internal/policy"
)

// Ingester re-populates the policy index from the configured corpus.
type Ingester interface {
	IngestDir(ctx context.Context, dir string, workers int) (policy.IngestStats, error)
}

// Server wires the pipeline to the HTTP surface.
type Server struct {
	pipeline       *pipeline.Pipeline
	ingester       Ingester
	policyCfg      model.PolicyConfig
	allowedOrigins []string
	maxUploadBytes int64
}

// New creates a new server
func New(p *pipeline.Pipeline, ingester Ingester, cfg model.ServerConfig, policyCfg model.PolicyConfig) *Server {
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 20_000_000
	}

	return &Server{
		pipeline:       p,
		ingester:       ingester,
		policyCfg:      policyCfg,
		allowedOrigins: cfg.AllowedOrigins,
		maxUploadBytes: maxUpload,
	}
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("POST /process-claim-stream/", s.handleTextStream)
	mux.HandleFunc("POST /process-claim-file-stream/", s.handleFileStream)
	mux.HandleFunc("POST /api/process-claim/text", s.handleTextClaim)
	mux.HandleFunc("POST /api/process-claim/file", s.handleFileClaim)
	mux.HandleFunc("POST /api/ingest-document/", s.handleIngest)

	return s.cors(mux)
}

// claimRequest is the body of the text-claim endpoints.
type claimRequest struct {
	ClaimDescription string `json:"claim_description"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Claimgate claim processor is running",
	})
}

// handleTextStream processes a text claim, streaming one NDJSON line per
// stage.
func (s *Server) handleTextStream(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	s.streamClaim(w, r, req.ClaimDescription)
}

// handleFileStream processes an uploaded image/PDF claim as a stream. The
// temp file is removed when the stream ends, however it ends.
func (s *Server) handleFileStream(w http.ResponseWriter, r *http.Request) {
	path, cleanup, err := s.saveUpload(r)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	defer cleanup()

	s.streamClaim(w, r, path)
}

// streamClaim runs the pipeline and pushes each stage message as soon as
// it is produced. Once the first line is written the HTTP status is fixed;
// later failures arrive in-band as an Error message.
func (s *Server) streamClaim(w http.ResponseWriter, r *http.Request, reference string) {
	requestID := uuid.NewString()
	fmt.Fprintf(os.Stderr, "[serve] %s claim stream started\n", requestID)

	w.Header().Set("Content-Type", "application/x-ndjson")

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)

	s.pipeline.Stream(r.Context(), reference, func(msg pipeline.StageMessage) error {
		if err := enc.Encode(msg); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})

	fmt.Fprintf(os.Stderr, "[serve] %s claim stream finished\n", requestID)
}

// handleTextClaim processes a text claim without streaming.
func (s *Server) handleTextClaim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	s.processClaim(w, r, req.ClaimDescription)
}

// handleFileClaim processes an uploaded image/PDF claim without streaming.
func (s *Server) handleFileClaim(w http.ResponseWriter, r *http.Request) {
	path, cleanup, err := s.saveUpload(r)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	defer cleanup()

	s.processClaim(w, r, path)
}

func (s *Server) processClaim(w http.ResponseWriter, r *http.Request, reference string) {
	requestID := uuid.NewString()
	fmt.Fprintf(os.Stderr, "[serve] %s processing claim\n", requestID)

	resp, err := s.pipeline.Process(r.Context(), reference)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[serve] %s failed: %v\n", requestID, err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing claim: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleIngest re-populates the policy index from the configured corpus
// directory. Side-effecting and external to per-claim flow.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ingester.IngestDir(r.Context(), s.policyCfg.CorpusDir, s.policyCfg.IngestWorkers)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("ingestion failed: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"message":   "Documents ingested successfully",
		"documents": stats.Documents,
		"clauses":   stats.Clauses,
		"failed":    stats.Failed,
	})
}

// cors applies the configured origin policy to every route. A request
// origin matching any configured entry is echoed back; "*" (or an empty
// list) allows everything.
func (s *Server) cors(next http.Handler) http.Handler {
	allowAll := len(s.allowedOrigins) == 0
	allowed := make(map[string]bool, len(s.allowedOrigins))
	for _, origin := range s.allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch origin := r.Header.Get("Origin"); {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		fmt.Fprintf(os.Stderr, "[serve] write response: %v\n", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeUploadError(w http.ResponseWriter, err error) {
	if ue, ok := err.(*uploadError); ok {
		writeError(w, ue.status, ue.message)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
