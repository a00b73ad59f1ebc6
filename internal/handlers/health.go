package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/devsetgo/userbase/internal/config"
	pkghttp "github.com/devsetgo/userbase/pkg/http"
	"github.com/devsetgo/userbase/pkg/sysinfo"
)

// DatabaseProber is the slice of the database layer the health endpoints use.
type DatabaseProber interface {
	TypeName() string
	ServerVersion(ctx context.Context) (string, error)
}

// configDenylist holds the substrings that hide a configuration key from the
// configuration endpoint. Matching is substring-based, so innocuously-named
// keys containing a denylisted word are hidden too.
var configDenylist = []string{
	"pwd",
	"password",
	"key",
	"csrf",
	"secret",
	"username",
}

// HealthHandler serves the read-only health/diagnostic endpoints.
type HealthHandler struct {
	db        DatabaseProber
	cfg       *config.Config
	startTime time.Time
	logger    *slog.Logger
}

func NewHealthHandler(db DatabaseProber, cfg *config.Config, startTime time.Time, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		cfg:       cfg,
		startTime: startTime,
		logger:    logger,
	}
}

// StatusResponse reports the up indicator, uptime and current time.
type StatusResponse struct {
	Status          string `json:"status"`
	Uptime          string `json:"uptime"`
	CurrentDatetime string `json:"current_datetime"`
}

// Status reports process liveness.
//
// GET /health/status
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime).Truncate(time.Second)

	pkghttp.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:          "up",
		Uptime:          uptime.String(),
		CurrentDatetime: time.Now().Format(time.RFC3339Nano),
	})
}

// Database probes database connectivity. A failed probe is reported as a
// structured "down" payload with HTTP 200; this endpoint never fails the
// request itself.
//
// GET /health/database
func (h *HealthHandler) Database(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	version, err := h.db.ServerVersion(ctx)
	if err != nil {
		h.logger.Error("database health check failed", slog.Any("error", err))
		pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
			"database":      "down",
			"error_message": err.Error(),
		})
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"database":      "up",
		"database_type": h.db.TypeName(),
		"version":       version,
	})
}

// SystemInfo reports CPU/platform descriptive data.
//
// GET /health/system-info
func (h *HealthHandler) SystemInfo(w http.ResponseWriter, r *http.Request) {
	info, err := sysinfo.GetSystemInfo(r.Context())
	if err != nil {
		h.logger.Error("failed to read system info", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "error retrieving system info")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"current_datetime": time.Now().Format(time.RFC3339Nano),
		"system_info":      info,
	})
}

// Processes lists allow-listed OS processes as pid/name/username tuples.
//
// GET /health/processes
func (h *HealthHandler) Processes(w http.ResponseWriter, r *http.Request) {
	procs, err := sysinfo.GetProcesses(r.Context())
	if err != nil {
		h.logger.Error("failed to list processes", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "error retrieving processes")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"current_datetime":  time.Now().Format(time.RFC3339Nano),
		"running_processes": procs,
	})
}

// Configuration dumps the settings with denylisted keys removed.
//
// GET /health/configuration
func (h *HealthHandler) Configuration(w http.ResponseWriter, r *http.Request) {
	configuration := make(map[string]any)
	for key, value := range h.cfg.Dump() {
		if denylisted(key) {
			continue
		}
		configuration[key] = value
	}

	h.logger.Info("completed configuration request")
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"configuration": configuration,
	})
}

// Heapdump writes a plain-text snapshot of current heap allocations.
//
// GET /health/heapdump
func (h *HealthHandler) Heapdump(w http.ResponseWriter, r *http.Request) {
	profile := pprof.Lookup("heap")
	if profile == nil {
		pkghttp.WriteInternalError(w, "heap profile unavailable")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := profile.WriteTo(w, 1); err != nil {
		h.logger.Error("failed to write heap profile", slog.Any("error", err))
	}
}

func denylisted(key string) bool {
	for _, word := range configDenylist {
		if strings.Contains(key, word) {
			return true
		}
	}
	return false
}
