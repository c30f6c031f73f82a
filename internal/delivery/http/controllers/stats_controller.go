package controllers

import (
	"log/slog"
	"net/http"

	h "eventcheckin/internal/delivery/http/helpers"
	"eventcheckin/internal/domain"
)

type StatsController struct {
	Logger  *slog.Logger
	Service domain.StatsService
}

func NewStatsController(logger *slog.Logger, svc domain.StatsService) *StatsController {
	return &StatsController{
		Logger:  logger,
		Service: svc,
	}
}

// Gender godoc
// @Summary Gender breakdown for the active event
// @Description Counts and percentages of registered persons by gender. Admin only.
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains total and per-gender buckets"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no active event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /stats/gender [get]
func (c *StatsController) Gender(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.Gender(r.Context())
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, stats)
}

// City godoc
// @Summary Address breakdown for the active event
// @Description Registered persons grouped by address, sorted by count descending. Admin only.
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains total and city buckets"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no active event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /stats/city [get]
func (c *StatsController) City(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.City(r.Context())
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, stats)
}

// CheckIn godoc
// @Summary Check-in counts by hour for the active event
// @Description Check-ins binned by hour of day in server-local time, sorted by hour. Admin only.
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains total and hourly buckets"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no active event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /stats/checkin [get]
func (c *StatsController) CheckIn(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.CheckIn(r.Context())
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, stats)
}

// RegistrationMethod godoc
// @Summary Registration method breakdown for the active event
// @Description Counts and percentages of registered persons by how they first registered. Admin only.
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains total and per-method buckets"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no active event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /stats/registration [get]
func (c *StatsController) RegistrationMethod(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.RegistrationMethod(r.Context())
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, stats)
}

// Dashboard godoc
// @Summary Aggregate summary for the active event
// @Description Event details plus registration, check-in, gender, and method totals in one response. Available to any staff role.
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the dashboard summary"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no active event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /stats/dashboard [get]
func (c *StatsController) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.Dashboard(r.Context())
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, stats)
}
