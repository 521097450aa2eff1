package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/daslab/treeshade/internal/domain/canopy"
	"github.com/daslab/treeshade/internal/domain/scene"
	"github.com/daslab/treeshade/internal/domain/shadow"
	"github.com/daslab/treeshade/internal/domain/suntable"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	shadowSvc shadow.Service
	canopySvc canopy.Service
	sceneSvc  scene.Service
	sunSvc    suntable.Service
	logger    *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(shadowSvc shadow.Service, canopySvc canopy.Service, sceneSvc scene.Service, sunSvc suntable.Service, logger *slog.Logger) *Handler {
	return &Handler{
		shadowSvc: shadowSvc,
		canopySvc: canopySvc,
		sceneSvc:  sceneSvc,
		sunSvc:    sunSvc,
		logger:    logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SunPositions returns the whole configured sun table.
func (h *Handler) SunPositions(c *gin.Context) {
	c.JSON(http.StatusOK, h.shadowSvc.Table(c.Request.Context()))
}

// SeasonPositions returns the time slots of one season.
func (h *Handler) SeasonPositions(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("season"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "season must be an integer", err))
		return
	}
	resp, err := h.shadowSvc.Season(c.Request.Context(), index)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ComputeSunPositions generates the slots of one date from the ephemeris.
func (h *Handler) ComputeSunPositions(c *gin.Context) {
	var req suntable.ComputeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.sunSvc.Compute(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProjectShadow projects a posted point cloud onto the ground.
func (h *Handler) ProjectShadow(c *gin.Context) {
	var req shadow.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.shadowSvc.Project(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EstimateCanopy computes height and density of a posted point cloud.
func (h *Handler) EstimateCanopy(c *gin.Context) {
	var req canopy.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.canopySvc.Estimate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TreeStats computes canopy stats from the stored cloud of one tree.
func (h *Handler) TreeStats(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("dbh"))
	if raw == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "dbh query parameter is required", nil))
		return
	}
	dbh, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "dbh must be a number", err))
		return
	}
	resp, err := h.canopySvc.TreeStats(c.Request.Context(), canopy.TreeStatsRequest{
		TreeID:        c.Param("id"),
		TrunkDiameter: dbh,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PrepareScene returns the layers to mount for a selected tree and season.
func (h *Handler) PrepareScene(c *gin.Context) {
	var req scene.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.sceneSvc.Prepare(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
