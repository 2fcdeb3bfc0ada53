package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// LifecycleHandler exposes the administrative status-transition operations.
type LifecycleHandler struct {
	lifecycleService service.LifecycleService
}

func NewLifecycleHandler(lifecycleService service.LifecycleService) *LifecycleHandler {
	return &LifecycleHandler{lifecycleService: lifecycleService}
}

func (h *LifecycleHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.GET("/unassigned", middleware.RequireRole(model.RoleAdmin), h.ListUnassigned)
		reports.GET("/in-progress", middleware.RequireRole(model.RoleAdmin), h.ListInProgress)
		reports.GET("/:id/staff", middleware.RequireRole(model.RoleAdmin), h.StaffForReport)
		reports.PUT("/:id/validate", middleware.RequireRole(model.RoleAdmin), h.Validate)
		reports.PUT("/:id/status", middleware.RequireRole(model.RoleAdmin), h.UpdateStatus)
		reports.POST("/:id/assign", middleware.RequireRole(model.RoleAdmin), h.AssignStaff)
		reports.PUT("/:id/release", middleware.RequireRole(model.RoleAdmin), h.ReleaseStaff)
		reports.PUT("/:id/assignment-status", middleware.RequireRole(model.RoleAdmin, model.RolePetugas), h.UpdateAssignmentStatus)
	}
}

// Validate marks a report as validated
// @Summary      Validate a report
// @Description  Sets the report status to Tervalidasi and notifies the reporter.
// @Tags         lifecycle
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  response.Response{data=service.ReportResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/reports/{id}/validate [put]
func (h *LifecycleHandler) Validate(c *gin.Context) {
	report, err := h.lifecycleService.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// UpdateStatus sets a report to any lifecycle status
// @Summary      Update report status
// @Description  Rejection requires a reason; landing on Selesai or Ditolak force-releases active assignments.
// @Tags         lifecycle
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Report ID"
// @Param        payload  body      service.UpdateStatusRequest  true  "Status payload"
// @Success      200      {object}  response.Response{data=service.ReportResponse}
// @Failure      422      {object}  response.Response
// @Router       /api/reports/{id}/status [put]
func (h *LifecycleHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	report, err := h.lifecycleService.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// AssignStaff dispatches a staff member to a report
// @Summary      Assign staff
// @Description  Creates an assignment in status Dikirim and moves the report to Dalam Proses.
// @Tags         lifecycle
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Report ID"
// @Param        payload  body      service.AssignStaffRequest  true  "Assignment payload"
// @Success      200      {object}  response.Response{data=service.ReportResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/reports/{id}/assign [post]
func (h *LifecycleHandler) AssignStaff(c *gin.Context) {
	var req service.AssignStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	report, err := h.lifecycleService.AssignStaff(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// ReleaseStaff closes a staff member's open assignment
func (h *LifecycleHandler) ReleaseStaff(c *gin.Context) {
	var req service.ReleaseStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	report, err := h.lifecycleService.ReleaseStaff(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// UpdateAssignmentStatus advances a staff member's task status on a report
func (h *LifecycleHandler) UpdateAssignmentStatus(c *gin.Context) {
	var req service.UpdateAssignmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	report, err := h.lifecycleService.UpdateAssignmentStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// ListUnassigned returns validated reports with no open assignment
func (h *LifecycleHandler) ListUnassigned(c *gin.Context) {
	reports, err := h.lifecycleService.ListUnassigned(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, reports))
}

// ListInProgress returns reports currently being worked on
func (h *LifecycleHandler) ListInProgress(c *gin.Context) {
	reports, err := h.lifecycleService.ListInProgress(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, reports))
}

// StaffForReport returns assignment history for completed reports, open assignments otherwise
func (h *LifecycleHandler) StaffForReport(c *gin.Context) {
	assignments, err := h.lifecycleService.StaffForReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, assignments))
}
