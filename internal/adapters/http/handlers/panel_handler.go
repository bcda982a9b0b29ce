package handlers

import (
	"osa-partnership/internal/core/domain"
	"osa-partnership/internal/core/services"
	"osa-partnership/internal/pkg/pagination"
	"osa-partnership/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PanelHandler serves the session-backed pages under /partnership
type PanelHandler struct {
	dashboardService  *services.DashboardService
	departmentService *services.DepartmentService
	userService       *services.UserService
}

// NewPanelHandler creates a new panel handler
func NewPanelHandler(
	dashboardService *services.DashboardService,
	departmentService *services.DepartmentService,
	userService *services.UserService,
) *PanelHandler {
	return &PanelHandler{
		dashboardService:  dashboardService,
		departmentService: departmentService,
		userService:       userService,
	}
}

// RemarksRequest is the admin landing review form
type RemarksRequest struct {
	DepartmentID  uint   `json:"department_id" form:"department_id"`
	RemarksStatus string `json:"remarks_status" form:"remarks_status"`
}

// Dashboard lists departments visible to the caller
// @Summary Dashboard
// @Tags Partnership
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param status query string false "Filter by partnership status"
// @Success 200 {object} response.Response
// @Router /partnership/dashboard/ [get]
func (h *PanelHandler) Dashboard(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return response.Redirect(c, "Please log in", LoginPath, nil)
	}

	data, err := h.dashboardService.Dashboard(c.UserContext(), actor, pagination.FromQuery(c), c.Query("status"))
	if err != nil {
		return respondWebError(c, err, "Failed to load dashboard")
	}

	return response.Success(c, "Dashboard", data)
}

// DepartmentDetail shows one department
// @Summary Department detail
// @Tags Partnership
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /partnership/department/{id}/ [get]
func (h *PanelHandler) DepartmentDetail(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return response.Redirect(c, "Please log in", LoginPath, nil)
	}

	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid department ID")
	}

	dept, err := h.departmentService.Get(c.UserContext(), actor, id)
	if err != nil {
		return respondWebError(c, err, "Failed to load department")
	}

	return response.Success(c, "Department", fiber.Map{
		"department": dept.ToResponse(),
		"can_edit":   domain.Authorize(actor, domain.ActionEditDepartment, dept.ToRef()).Allowed,
	})
}

// EditDepartment saves the department edit form
// @Summary Edit department
// @Description Multipart form; a file in logo_path replaces the current logo
// @Tags Partnership
// @Accept mpfd,x-www-form-urlencoded,json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /partnership/department/{id}/edit/ [post]
func (h *PanelHandler) EditDepartment(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return response.Redirect(c, "Please log in", LoginPath, nil)
	}

	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid department ID")
	}

	var req services.DepartmentInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid form data")
	}

	logo, done, err := logoUpload(c)
	if err != nil {
		return response.BadRequest(c, "Invalid logo upload")
	}
	defer done()

	dept, err := h.departmentService.Edit(c.UserContext(), actor, id, &req, logo)
	if err != nil {
		return respondWebError(c, err, "Failed to update department")
	}

	return response.Redirect(c, "Department updated successfully", DepartmentPath(dept.ID), dept.ToResponse())
}

// AdminPanel shows statistics and every department
// @Summary Admin landing
// @Tags Partnership
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /partnership/admin-panel/ [get]
func (h *PanelHandler) AdminPanel(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return response.Redirect(c, "Please log in", LoginPath, nil)
	}

	data, err := h.dashboardService.AdminPanel(c.UserContext(), actor)
	if err != nil {
		return respondWebError(c, err, "Failed to load admin panel")
	}

	return response.Success(c, "Admin panel", data)
}

// ReviewRemarks updates the remarks of one department from the admin landing
// @Summary Review remarks
// @Tags Partnership
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Security BearerAuth
// @Param body body RemarksRequest true "Remarks"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /partnership/admin-panel/ [post]
func (h *PanelHandler) ReviewRemarks(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return response.Redirect(c, "Please log in", LoginPath, nil)
	}

	var req RemarksRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid form data")
	}
	if req.DepartmentID == 0 {
		return response.ValidationFailed(c, "department_id", "This field is required.")
	}

	dept, err := h.departmentService.ReviewRemarks(c.UserContext(), actor, req.DepartmentID, req.RemarksStatus)
	if err != nil {
		return respondWebError(c, err, "Failed to update remarks")
	}

	return response.Redirect(c, "Remarks updated successfully", AdminPanelPath, dept.ToResponse())
}

// DeleteUser removes a user from the admin landing
// @Summary Delete user
// @Tags Partnership
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /partnership/admin-panel/user/{id}/delete/ [post]
func (h *PanelHandler) DeleteUser(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return response.Redirect(c, "Please log in", LoginPath, nil)
	}

	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.userService.DeleteUser(c.UserContext(), actor, id); err != nil {
		return respondWebError(c, err, "Failed to delete user")
	}

	return response.Redirect(c, "User deleted successfully", AdminPanelPath, nil)
}

// OwnerPanel shows the caller's profile and owned departments
// @Summary Owner landing
// @Tags Partnership
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /partnership/owner-panel/ [get]
func (h *PanelHandler) OwnerPanel(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return response.Redirect(c, "Please log in", LoginPath, nil)
	}

	data, err := h.dashboardService.OwnerPanel(c.UserContext(), actor)
	if err != nil {
		return respondWebError(c, err, "Failed to load owner panel")
	}

	return response.Success(c, "Owner panel", data)
}

// AddDepartment creates a department owned by the caller
// @Summary Add department
// @Tags Partnership
// @Accept mpfd,x-www-form-urlencoded,json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /partnership/owner-panel/department/add/ [post]
func (h *PanelHandler) AddDepartment(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return response.Redirect(c, "Please log in", LoginPath, nil)
	}

	var req services.DepartmentInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid form data")
	}
	// the owner landing always creates for the caller
	req.Owner = nil

	logo, done, err := logoUpload(c)
	if err != nil {
		return response.BadRequest(c, "Invalid logo upload")
	}
	defer done()

	dept, err := h.departmentService.Create(c.UserContext(), actor, &req, logo)
	if err != nil {
		return respondWebError(c, err, "Failed to add department")
	}

	return c.Status(fiber.StatusCreated).JSON(response.Response{
		Success:  true,
		Message:  "Department added successfully",
		Redirect: OwnerPanelPath,
		Data:     dept.ToResponse(),
	})
}

// DeleteDepartment deletes a department from the owner landing
// @Summary Delete department
// @Tags Partnership
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /partnership/owner-panel/department/{id}/delete/ [post]
func (h *PanelHandler) DeleteDepartment(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return response.Redirect(c, "Please log in", LoginPath, nil)
	}

	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid department ID")
	}

	if err := h.departmentService.Delete(c.UserContext(), actor, id); err != nil {
		return respondWebError(c, err, "Failed to delete department")
	}

	return response.Redirect(c, "Department deleted successfully", OwnerPanelPath, nil)
}
