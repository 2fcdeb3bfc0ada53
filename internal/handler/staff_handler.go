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

type StaffHandler struct {
	staffService service.StaffService
}

func NewStaffHandler(staffService service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

func (h *StaffHandler) RegisterRoutes(router *gin.RouterGroup) {
	staff := router.Group("/api/staff")
	{
		staff.POST("", middleware.RequireRole(model.RoleAdmin), h.CreateStaff)
		staff.GET("", middleware.RequireRole(model.RoleAdmin), h.ListStaff)
		staff.GET("/:id", middleware.RequireRole(model.RoleAdmin), h.GetStaff)
		staff.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.UpdateStaff)
		staff.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteStaff)
	}
}

// CreateStaff registers a new field technician
// @Summary      Create staff
// @Tags         staff
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateStaffRequest  true  "Staff payload"
// @Success      201      {object}  response.Response{data=service.StaffResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/staff [post]
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req service.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	staff, err := h.staffService.CreateStaff(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, staff))
}

// ListStaff returns staff, optionally filtered by availability
func (h *StaffHandler) ListStaff(c *gin.Context) {
	params := pagination.Parse(c)

	staff, total, err := h.staffService.ListStaff(c.Request.Context(), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   staff,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// GetStaff returns a single staff member
func (h *StaffHandler) GetStaff(c *gin.Context) {
	staff, err := h.staffService.GetStaff(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, staff))
}

// UpdateStaff edits a staff member's details or availability
func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	var req service.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	staff, err := h.staffService.UpdateStaff(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, staff))
}

// DeleteStaff removes a staff member from the roster
func (h *StaffHandler) DeleteStaff(c *gin.Context) {
	if err := h.staffService.DeleteStaff(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
