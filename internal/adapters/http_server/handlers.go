// internal/adapters/http_server/handlers.go
package httpserver

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"gmb_agent/internal/adapters/observability"
	"gmb_agent/internal/app"
	"gmb_agent/internal/domain"
)

const maxBodyBytes = 1 << 20

type Handlers struct{ A *app.AgentService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type runResponse struct {
	ID             string             `json:"id"`
	ElapsedSeconds float64            `json:"elapsed_seconds"`
	Raw            domain.RawDocument `json:"raw"`
	Report         domain.Report      `json:"report"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/reports", h.createReport)
	s.mux.Get("/v1/reports", h.listReports)
	s.mux.Get("/v1/reports/{id}", h.getReport)
	s.mux.Get("/v1/reports/{id}/raw", h.getRaw)
	s.mux.Get("/v1/locations/suggestions", h.suggestLocations)
	s.mux.Delete("/v1/places/{id}/cache", h.invalidatePlace)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeErr maps service errors onto problem responses.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, domain.ErrNoGeocode):
		writeProblem(w, http.StatusBadRequest, "Unknown location", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "report not found")
	case errors.Is(err, app.ErrStoreDisabled):
		writeProblem(w, http.StatusServiceUnavailable, "Store disabled", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusBadGateway, "Upstream failure", err.Error())
	}
}

// marshal keeps <, > and & literal; report texts contain them.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("marshal response failed")
		writeProblem(w, http.StatusInternalServerError, "Internal error", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("write response body failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("write response body failed")
	}
}

func (h *Handlers) createReport(w http.ResponseWriter, r *http.Request) {
	var req app.RunRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be a JSON object with keyword and location")
		return
	}

	res, err := h.A.Run(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	observability.ObserveRun(len(res.Raw.Places), res.Elapsed)

	w.Header().Set("Location", "/v1/reports/"+res.ID)
	writeJSON(w, http.StatusCreated, runResponse{
		ID:             res.ID,
		ElapsedSeconds: seconds(res.Elapsed),
		Raw:            res.Raw,
		Report:         res.Report,
	})
}

func (h *Handlers) listReports(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 100 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 100")
			return
		}
		limit = l
	}
	runs, err := h.A.ListRuns(r.Context(), limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (h *Handlers) getReport(w http.ResponseWriter, r *http.Request) {
	run, err := h.A.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeCached(w, r, run.Report)
}

func (h *Handlers) getRaw(w http.ResponseWriter, r *http.Request) {
	run, err := h.A.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeCached(w, r, run.Raw)
}

func (h *Handlers) suggestLocations(w http.ResponseWriter, r *http.Request) {
	sugs, err := h.A.Suggest(r.Context(), r.URL.Query().Get("input"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": sugs})
}

func (h *Handlers) invalidatePlace(w http.ResponseWriter, r *http.Request) {
	if err := h.A.InvalidatePlace(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
