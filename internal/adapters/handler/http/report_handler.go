package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/comitanigiacomo/cadence-engine/internal/core/analytics"
	"github.com/comitanigiacomo/cadence-engine/internal/core/domain"
	"github.com/comitanigiacomo/cadence-engine/internal/core/services"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc *services.ReportService
}

func NewReportHandler(svc *services.ReportService) *ReportHandler {
	return &ReportHandler{
		svc: svc,
	}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/overview", h.Overview)
		reports.GET("/broken", h.Broken)
	}

	router.GET("/habits/:name/report", h.HabitReport)
}

// asOf reads the optional as_of query parameter. Reports are pure
// functions of the check-off log and the reference date, so any
// historical date can be replayed.
func asOf(c *gin.Context) (time.Time, error) {
	raw := c.Query("as_of")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return analytics.ParseDate(raw)
}

// Overview godoc
// @Summary     Streak and health overview of all habits
// @Tags        reports
// @Produce     json
// @Param       periodicity query string false "Filter by periodicity (daily, weekly, monthly)"
// @Param       as_of query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success     200 {object} domain.Overview
// @Security    BearerAuth
// @Router      /reports/overview [get]
func (h *ReportHandler) Overview(c *gin.Context) {
	now, err := asOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid as_of date, use YYYY-MM-DD"})
		return
	}

	periodicity, err := parsePeriodicityQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	overview, err := h.svc.Overview(c.Request.Context(), periodicity, now)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, overview)
}

// Broken godoc
// @Summary     Habits needing attention (broken or pending)
// @Tags        reports
// @Produce     json
// @Param       as_of query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success     200 {array} domain.BrokenHabit
// @Security    BearerAuth
// @Router      /reports/broken [get]
func (h *ReportHandler) Broken(c *gin.Context) {
	now, err := asOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid as_of date, use YYYY-MM-DD"})
		return
	}

	broken, err := h.svc.BrokenHabits(c.Request.Context(), now)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, broken)
}

// HabitReport godoc
// @Summary     Full streak and health report for one habit
// @Tags        reports
// @Produce     json
// @Param       name path string true "Habit name"
// @Param       as_of query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success     200 {object} domain.HabitReport
// @Failure     404 {object} map[string]string
// @Security    BearerAuth
// @Router      /habits/{name}/report [get]
func (h *ReportHandler) HabitReport(c *gin.Context) {
	now, err := asOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid as_of date, use YYYY-MM-DD"})
		return
	}

	report, err := h.svc.HabitReport(c.Request.Context(), c.Param("name"), now)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, report)
}
