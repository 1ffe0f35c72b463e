// Package server exposes the record store, the settings store and the
// dashboard as a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/networth-forecast/internal/forecast"
	"github.com/iwvelando/networth-forecast/internal/records"
	"github.com/iwvelando/networth-forecast/internal/settings"
	"github.com/iwvelando/networth-forecast/internal/storage"
	"github.com/iwvelando/networth-forecast/pkg/constants"
	"github.com/iwvelando/networth-forecast/pkg/validation"
	"go.uber.org/zap"
)

type handler struct {
	logger      *zap.Logger
	records     *records.Service
	settings    *settings.Service
	maxBodySize int64
	version     string
	milestones  []float64
}

// NewHandler constructs the HTTP handler that serves the JSON API. Dashboard
// milestones default to $5M and $10M when none are given.
func NewHandler(logger *zap.Logger, recordSvc *records.Service, settingsSvc *settings.Service, maxBodySize int64, version string, milestones ...float64) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		records:     recordSvc,
		settings:    settingsSvc,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
		milestones:  milestones,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/records", h.handleListRecords)
	mux.HandleFunc("POST /api/records", h.handleAddRecord)
	mux.HandleFunc("PUT /api/records/{id}", h.handleUpdateRecord)
	mux.HandleFunc("DELETE /api/records/{id}", h.handleRemoveRecord)
	mux.HandleFunc("POST /api/records/seed", h.handleSeed)
	mux.HandleFunc("POST /api/records/rederive", h.handleRederive)

	mux.HandleFunc("GET /api/settings", h.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", h.handleUpdateSettings)

	mux.HandleFunc("GET /api/dashboard", h.handleDashboard)

	// Version endpoint for client metadata
	mux.HandleFunc("GET /api/version", h.handleVersion)

	return mux
}

type recordRequest struct {
	Year             int      `json:"year"`
	Age              int      `json:"age"`
	NetWorth         *float64 `json:"netWorth"`
	GrowthPercentage *float64 `json:"growthPercentage,omitempty"`
	GrowthAmount     *float64 `json:"growthAmount,omitempty"`
	Derive           bool     `json:"derive,omitempty"`
}

func (req recordRequest) entry() (records.Entry, error) {
	if req.NetWorth == nil {
		return records.Entry{}, fmt.Errorf("netWorth is required: %w", validation.ErrInvalidNumeric)
	}
	return records.Entry{
		Year:             req.Year,
		Age:              req.Age,
		NetWorth:         *req.NetWorth,
		GrowthPercentage: req.GrowthPercentage,
		GrowthAmount:     req.GrowthAmount,
	}, nil
}

type idResponse struct {
	ID string `json:"id"`
}

func (h *handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	list, err := h.records.List(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "server.handleListRecords")
		return
	}
	if list == nil {
		list = []storage.Record{}
	}
	h.writeJSON(w, http.StatusOK, list)
}

func (h *handler) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddRecord"

	var req recordRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	entry, err := req.entry()
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}

	var id string
	if req.Derive {
		id, err = h.records.Append(r.Context(), entry.Year, entry.Age, entry.NetWorth)
	} else {
		id, err = h.records.Add(r.Context(), entry)
	}
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, idResponse{ID: id})
}

func (h *handler) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateRecord"
	id := r.PathValue("id")

	var req recordRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	entry, err := req.entry()
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}

	if err := h.records.Update(r.Context(), id, entry); err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, idResponse{ID: id})
}

func (h *handler) handleRemoveRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.records.Remove(r.Context(), r.PathValue("id")); err != nil {
		h.respondServiceError(w, err, "server.handleRemoveRecord")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleSeed(w http.ResponseWriter, r *http.Request) {
	status, err := h.records.Seed(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "server.handleSeed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

func (h *handler) handleRederive(w http.ResponseWriter, r *http.Request) {
	changed, err := h.records.Rederive(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "server.handleRederive")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"changed": changed})
}

func (h *handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	stored, err := h.settings.Get(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "server.handleGetSettings")
		return
	}
	// A nil pointer encodes as null before the first write.
	h.writeJSON(w, http.StatusOK, stored)
}

func (h *handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateSettings"

	var next storage.Settings
	if !h.decodeBody(w, r, &next, op) {
		return
	}
	if err := h.settings.Update(r.Context(), next); err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, next)
}

func (h *handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	dash, err := forecast.GetDashboard(r.Context(), h.logger, h.records, h.settings, h.milestones...)
	if err != nil {
		h.respondServiceError(w, err, "server.handleDashboard")
		return
	}
	h.logger.Debug("served dashboard",
		zap.String("op", "server.handleDashboard"),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, dash)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeBody reads a size-limited JSON body into dst. It writes the error
// response itself and reports whether decoding succeeded.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse request body: %v", err), op)
		return false
	}
	return true
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, records.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, records.ErrDuplicateYear):
		return http.StatusConflict
	case errors.Is(err, validation.ErrInvalidNumeric), errors.Is(err, validation.ErrInvalidSettings):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	log := h.logger.Warn
	if status >= http.StatusInternalServerError {
		log = h.logger.Error
	}
	log("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes payload before writing the status so an encoding failure
// is reported as a 500 with an error body.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Int("status", status),
			zap.Error(err),
		)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
