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

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{
		svc: svc,
	}
}

type createHabitRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Periodicity string `json:"periodicity" binding:"required"`
	StartDate   string `json:"start_date"`
}

type updateHabitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Periodicity string `json:"periodicity"`
	Version     int    `json:"version" binding:"required"`
}

type checkOffRequest struct {
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/:name", h.Get)
		habits.PUT("/:name", h.Update)
		habits.DELETE("/:name", h.Delete)

		habits.POST("/:name/checkoffs", h.CheckOff)
		habits.GET("/:name/checkoffs", h.History)
	}

	router.DELETE("/checkoffs/:id", h.RemoveCheckOff)
}

// Create godoc
// @Summary     Create a habit
// @Tags        habits
// @Accept      json
// @Produce     json
// @Param       habit body createHabitRequest true "Habit definition"
// @Success     201 {object} domain.Habit
// @Failure     400 {object} map[string]string
// @Failure     409 {object} map[string]string
// @Security    BearerAuth
// @Router      /habits [post]
func (h *HabitHandler) Create(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	periodicity, err := domain.ParsePeriodicity(req.Periodicity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var startDate time.Time
	if req.StartDate != "" {
		startDate, err = analytics.ParseDate(req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, use YYYY-MM-DD"})
			return
		}
	}

	habit, err := h.svc.Create(c.Request.Context(), services.CreateHabitInput{
		Name:        req.Name,
		Description: req.Description,
		Periodicity: periodicity,
		StartDate:   startDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHabitExists):
			c.JSON(http.StatusConflict, gin.H{"error": "habit with this name already exists"})
		case errors.Is(err, domain.ErrHabitNameEmpty),
			errors.Is(err, domain.ErrHabitNameTooLong),
			errors.Is(err, domain.ErrHabitDescTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// List godoc
// @Summary     List habits
// @Tags        habits
// @Produce     json
// @Param       periodicity query string false "Filter by periodicity (daily, weekly, monthly)"
// @Success     200 {array} domain.Habit
// @Security    BearerAuth
// @Router      /habits [get]
func (h *HabitHandler) List(c *gin.Context) {
	periodicity, err := parsePeriodicityQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.svc.List(c.Request.Context(), periodicity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// Get godoc
// @Summary     Get a habit by name
// @Tags        habits
// @Produce     json
// @Param       name path string true "Habit name"
// @Success     200 {object} domain.Habit
// @Failure     404 {object} map[string]string
// @Security    BearerAuth
// @Router      /habits/{name} [get]
func (h *HabitHandler) Get(c *gin.Context) {
	habit, err := h.svc.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Update godoc
// @Summary     Update a habit
// @Tags        habits
// @Accept      json
// @Produce     json
// @Param       name path string true "Habit name"
// @Param       habit body updateHabitRequest true "Fields to change"
// @Success     200 {object} domain.Habit
// @Failure     404 {object} map[string]string
// @Failure     409 {object} map[string]string
// @Security    BearerAuth
// @Router      /habits/{name} [put]
func (h *HabitHandler) Update(c *gin.Context) {
	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var periodicity domain.Periodicity
	if req.Periodicity != "" {
		var err error
		periodicity, err = domain.ParsePeriodicity(req.Periodicity)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	habit, err := h.svc.Update(c.Request.Context(), services.UpdateHabitInput{
		Name:        c.Param("name"),
		NewName:     req.Name,
		Description: req.Description,
		Periodicity: periodicity,
		Version:     req.Version,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHabitConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error":   "version conflict",
				"message": "Habit has been modified elsewhere. Fetch it again before retrying.",
			})
		case errors.Is(err, domain.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		case errors.Is(err, domain.ErrHabitExists):
			c.JSON(http.StatusConflict, gin.H{"error": "habit with this name already exists"})
		case errors.Is(err, domain.ErrHabitNameEmpty),
			errors.Is(err, domain.ErrHabitNameTooLong),
			errors.Is(err, domain.ErrHabitDescTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Delete godoc
// @Summary     Delete a habit and its check-off log
// @Tags        habits
// @Param       name path string true "Habit name"
// @Success     204
// @Failure     404 {object} map[string]string
// @Security    BearerAuth
// @Router      /habits/{name} [delete]
func (h *HabitHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// CheckOff godoc
// @Summary     Record a completion for a habit
// @Tags        habits
// @Accept      json
// @Produce     json
// @Param       name path string true "Habit name"
// @Param       checkoff body checkOffRequest false "Completion date and notes; date defaults to today"
// @Success     201 {object} domain.CheckOff
// @Failure     404 {object} map[string]string
// @Security    BearerAuth
// @Router      /habits/{name}/checkoffs [post]
func (h *HabitHandler) CheckOff(c *gin.Context) {
	var req checkOffRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var date time.Time
	if req.Date != "" {
		var err error
		date, err = analytics.ParseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
			return
		}
	}

	checkOff, err := h.svc.CheckOff(c.Request.Context(), c.Param("name"), date, req.Notes, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		case errors.Is(err, domain.ErrCheckOffFuture):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot check off a future date"})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, checkOff)
}

// History godoc
// @Summary     List check-offs for a habit
// @Tags        habits
// @Produce     json
// @Param       name path string true "Habit name"
// @Param       from query string false "Range start (YYYY-MM-DD)"
// @Param       to query string false "Range end (YYYY-MM-DD)"
// @Success     200 {array} domain.CheckOff
// @Failure     404 {object} map[string]string
// @Security    BearerAuth
// @Router      /habits/{name}/checkoffs [get]
func (h *HabitHandler) History(c *gin.Context) {
	var from, to time.Time
	var err error

	if v := c.Query("from"); v != "" {
		from, err = analytics.ParseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, use YYYY-MM-DD"})
			return
		}
	}
	if v := c.Query("to"); v != "" {
		to, err = analytics.ParseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, use YYYY-MM-DD"})
			return
		}
	}

	history, err := h.svc.History(c.Request.Context(), c.Param("name"), from, to)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, history)
}

// RemoveCheckOff godoc
// @Summary     Remove a check-off
// @Tags        habits
// @Param       id path string true "Check-off ID"
// @Success     204
// @Failure     404 {object} map[string]string
// @Security    BearerAuth
// @Router      /checkoffs/{id} [delete]
func (h *HabitHandler) RemoveCheckOff(c *gin.Context) {
	err := h.svc.RemoveCheckOff(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrCheckOffNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "check-off not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func parsePeriodicityQuery(c *gin.Context) (domain.Periodicity, error) {
	raw := c.Query("periodicity")
	if raw == "" {
		return "", nil
	}
	return domain.ParsePeriodicity(raw)
}
