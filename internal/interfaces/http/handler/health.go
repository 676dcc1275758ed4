package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/erp/supplychain/internal/infrastructure/persistence"
	"github.com/erp/supplychain/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// DatabaseChecker is the part of the database the readiness probe needs
type DatabaseChecker interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	db           DatabaseChecker
	name         string
	version      string
	startTime    time.Time
	probeTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DatabaseChecker, name, version string) *HealthHandler {
	return &HealthHandler{
		db:           db,
		name:         name,
		version:      version,
		startTime:    time.Now(),
		probeTimeout: 2 * time.Second,
	}
}

// HealthResponse is returned by the liveness probe
// @name HandlerHealthResponse
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Name      string `json:"name" example:"supplychain"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// ReadinessResponse is returned by the readiness probe
// @name HandlerReadinessResponse
type ReadinessResponse struct {
	Status   string                       `json:"status" example:"ready"`
	Database string                       `json:"database" example:"up"`
	Pool     *persistence.ConnectionStats `json:"pool,omitempty"`
}

// Health godoc
// @ID           getHealth
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	h.Success(c, HealthResponse{
		Status:    "ok",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ready godoc
// @ID           getReadiness
// @Summary      Readiness probe
// @Description  Pings the database. Answers 503 while it is unreachable.
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[ReadinessResponse]
// @Failure      503 {object} APIResponse[ReadinessResponse]
// @Router       /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.probeTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data:    ReadinessResponse{Status: "not_ready", Database: "down"},
			Error: &dto.ErrorInfo{
				Code:      "SERVICE_UNAVAILABLE",
				Message:   "Database is unreachable",
				RequestID: getRequestID(c),
			},
		})
		return
	}

	resp := ReadinessResponse{Status: "ready", Database: "up"}
	if stats, err := h.db.Stats(); err == nil {
		resp.Pool = &stats
	}
	h.Success(c, resp)
}
