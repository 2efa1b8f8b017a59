package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spendwise/expense-api/internal/api/metrics"
	"github.com/spendwise/expense-api/internal/core/domain"
	"github.com/spendwise/expense-api/internal/core/ports"
)

// ReportHandler handles the read-only reporting endpoints.
type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

type monthlyReportRequest struct {
	Month int `query:"month" validate:"required,gte=1,lte=12"`
	Year  int `query:"year"  validate:"required,gte=2000,lte=2100"`
}

type categoryReportRequest struct {
	Category  string `query:"category"  validate:"required,oneof=Food Transportation Entertainment Healthcare Shopping Bills Education Travel Personal Other"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
}

type statsRequest struct {
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
}

// Monthly handles GET /api/reports/monthly.
//
// @Summary      Monthly summary report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        month  query     int  true  "Month (1-12)"
// @Param        year   query     int  true  "Year (2000-2100)"
// @Success      200    {object}  envelope
// @Failure      400    {object}  envelope
// @Router       /api/reports/monthly [get]
func (h *ReportHandler) Monthly(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req monthlyReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	report, err := h.service.MonthlyReport(c.Request().Context(), userID, req.Month, req.Year)
	if err != nil {
		return err
	}

	metrics.ReportsGeneratedTotal.WithLabelValues("monthly").Inc()
	return respond(c, http.StatusOK, "monthly report generated", report)
}

// Category handles GET /api/reports/category.
//
// @Summary      Per-category statistics and monthly trend
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        category   query     string  true   "Category name"
// @Param        startDate  query     string  false  "Inclusive lower date bound"
// @Param        endDate    query     string  false  "Inclusive upper date bound"
// @Success      200        {object}  envelope
// @Failure      400        {object}  envelope
// @Router       /api/reports/category [get]
func (h *ReportHandler) Category(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req categoryReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	from, to, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	report, err := h.service.CategoryReport(c.Request().Context(), userID, domain.Category(req.Category), from, to)
	if err != nil {
		return err
	}

	metrics.ReportsGeneratedTotal.WithLabelValues("category").Inc()
	return respond(c, http.StatusOK, "category report generated", report)
}

// Stats handles GET /api/reports/stats.
//
// @Summary      Overall statistics with category and payment breakdowns
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        startDate  query     string  false  "Inclusive lower date bound"
// @Param        endDate    query     string  false  "Inclusive upper date bound"
// @Success      200        {object}  envelope
// @Failure      400        {object}  envelope
// @Router       /api/reports/stats [get]
func (h *ReportHandler) Stats(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req statsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	from, to, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	stats, err := h.service.OverallStats(c.Request().Context(), userID, from, to)
	if err != nil {
		return err
	}

	metrics.ReportsGeneratedTotal.WithLabelValues("stats").Inc()
	return respond(c, http.StatusOK, "statistics generated", stats)
}
