package handlers

import (
	"net/http"
	"time"

	"github.com/wecomkit/rulesync/internal/constants"
	"github.com/wecomkit/rulesync/internal/database"
	"github.com/wecomkit/rulesync/internal/utils"
)

// SyncHandler handles manual sync runs and service health
type SyncHandler struct {
	pullService PullServiceInterface
	db          *database.Pool
	version     string
	startTime   time.Time
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(pullService PullServiceInterface, db *database.Pool, version string) *SyncHandler {
	return &SyncHandler{
		pullService: pullService,
		db:          db,
		version:     version,
		startTime:   time.Now(),
	}
}

// TriggerPull runs one pull pass immediately and reports its outcome.
// Scheduled runs are unaffected.
func (h *SyncHandler) TriggerPull(w http.ResponseWriter, r *http.Request) {
	stats, err := h.pullService.Run(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, stats)
}

// Health reports service and database health
func (h *SyncHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	statusCode := constants.StatusOK

	dbStatus := "connected"
	if err := h.db.HealthCheck(r.Context()); err != nil {
		status = "degraded"
		statusCode = constants.StatusServiceUnavailable
		dbStatus = "disconnected"
	}

	utils.JSON(w, statusCode, map[string]interface{}{
		"status":   status,
		"database": dbStatus,
		"version":  h.version,
		"uptime":   time.Since(h.startTime).String(),
	})
}

// Version reports build information
func (h *SyncHandler) Version(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, constants.StatusOK, map[string]string{
		"version": h.version,
	})
}
