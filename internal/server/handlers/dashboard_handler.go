package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/boutique/internal/service/reporting"
)

const (
	defaultTrendDays   = 7
	defaultTrendMonths = 6
)

// DashboardHandler serves the dashboard and statistics screens.
type DashboardHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardHandler constructs the reporting HTTP adapter.
func NewDashboardHandler(svc *reporting.Service, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger, now: time.Now}
}

// Dashboard returns today's tiles.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context(), h.now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Statistics returns the charts for ?days= and ?months=.
func (h *DashboardHandler) Statistics(c *gin.Context) {
	days, err := intQuery(c, "days", defaultTrendDays)
	if err != nil {
		badRequest(c, h.logger, err)
		return
	}
	months, err := intQuery(c, "months", defaultTrendMonths)
	if err != nil {
		badRequest(c, h.logger, err)
		return
	}

	stats, err := h.svc.Statistics(c.Request.Context(), h.now(), days, months)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
