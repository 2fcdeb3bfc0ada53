package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.POST("", middleware.RequireRole(model.RoleMasyarakat, model.RoleAdmin), h.CreateReport)
		reports.GET("", middleware.RequireRole(model.RoleAdmin), h.ListReports)
		reports.GET("/mine", middleware.RequireRole(model.RoleMasyarakat), h.ListMyReports)
		reports.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RolePetugas, model.RoleMasyarakat), h.GetReport)
		reports.PUT("/:id", middleware.RequireRole(model.RoleMasyarakat), h.UpdateReport)
		reports.POST("/:id/evidence", middleware.RequireRole(model.RolePetugas, model.RoleAdmin), h.AddRepairEvidence)
		reports.POST("/:id/rating", middleware.RequireRole(model.RoleMasyarakat), h.RateReport)
	}
}

// CreateReport submits a new citizen complaint
// @Summary      Submit a report
// @Description  Creates a new facility complaint. The report starts in status Validasi.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateReportRequest  true  "Report payload"
// @Success      201      {object}  response.Response{data=service.ReportResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/reports [post]
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req service.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, report))
}

// ListReports returns all reports, optionally filtered by status
// @Summary      List reports
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by report status"
// @Param        page    query     int     false  "Page"
// @Param        limit   query     int     false  "Limit"
// @Success      200     {object}  response.Response
// @Router       /api/reports [get]
func (h *ReportHandler) ListReports(c *gin.Context) {
	params := pagination.Parse(c)

	reports, total, err := h.reportService.ListReports(c.Request.Context(), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   reports,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// ListMyReports returns the authenticated citizen's own reports
func (h *ReportHandler) ListMyReports(c *gin.Context) {
	params := pagination.Parse(c)

	reports, total, err := h.reportService.ListMyReports(c.Request.Context(), currentUserID(c), params.Page, params.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   reports,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// GetReport returns a single report with its assignments
func (h *ReportHandler) GetReport(c *gin.Context) {
	report, err := h.reportService.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// UpdateReport lets the reporter edit a report that is still waiting for validation
func (h *ReportHandler) UpdateReport(c *gin.Context) {
	var req service.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	report, err := h.reportService.UpdateReport(c.Request.Context(), c.Param("id"), currentUserID(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// AddRepairEvidence registers hosted proof-of-repair URLs on an in-progress report
// @Summary      Add repair evidence
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                            true  "Report ID"
// @Param        payload  body      service.AddRepairEvidenceRequest  true  "Evidence payload"
// @Success      200      {object}  response.Response{data=service.ReportResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/reports/{id}/evidence [post]
func (h *ReportHandler) AddRepairEvidence(c *gin.Context) {
	var req service.AddRepairEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	report, err := h.reportService.AddRepairEvidence(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// RateReport records the reporter's rating of a completed report
func (h *ReportHandler) RateReport(c *gin.Context) {
	var req service.RateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	report, err := h.reportService.RateReport(c.Request.Context(), c.Param("id"), currentUserID(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
