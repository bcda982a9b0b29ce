package handlers

import (
	"strings"

	"osa-partnership/internal/adapters/persistence/models"
	"osa-partnership/internal/core/services"
	"osa-partnership/internal/pkg/pagination"
	"osa-partnership/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

// logoField is the multipart field carrying a department logo
const logoField = "logo_path"

// DepartmentHandler handles the /api/departments resource
type DepartmentHandler struct {
	departmentService *services.DepartmentService
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(departmentService *services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{
		departmentService: departmentService,
	}
}

// List handles listing departments
// @Summary List departments
// @Description Administrators see every department, everyone else sees the ones they own
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param status query string false "Filter by partnership status" Enums(active, inactive, pending)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/departments/ [get]
func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	p := pagination.FromQuery(c)
	depts, total, err := h.departmentService.List(c.UserContext(), actor, p, c.Query("status"))
	if err != nil {
		return respondError(c, err, "Failed to list departments")
	}

	return response.Success(c, "Departments retrieved successfully",
		pagination.NewPage(departmentResponses(depts), p, total))
}

// Create handles creating a department
// @Summary Create department
// @Description The caller owns the new department unless an administrator names another owner
// @Tags Departments
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param body body services.DepartmentInput true "Department data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/departments/ [post]
func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.DepartmentInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	logo, done, err := logoUpload(c)
	if err != nil {
		return response.BadRequest(c, "Invalid logo upload")
	}
	defer done()

	dept, err := h.departmentService.Create(c.UserContext(), actor, &req, logo)
	if err != nil {
		return respondError(c, err, "Failed to create department")
	}

	return response.Created(c, "Department created successfully", dept.ToResponse())
}

// Get handles getting a department by ID
// @Summary Get department by ID
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/departments/{id}/ [get]
func (h *DepartmentHandler) Get(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid department ID")
	}

	dept, err := h.departmentService.Get(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err, "Failed to get department")
	}

	return response.Success(c, "Department retrieved successfully", dept.ToResponse())
}

// Replace handles PUT of a department; the core fields must all be present
// @Summary Replace department
// @Tags Departments
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Param body body services.DepartmentInput true "Department data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/departments/{id}/ [put]
func (h *DepartmentHandler) Replace(c *fiber.Ctx) error {
	return h.update(c, true)
}

// Patch handles PATCH of a department; omitted fields are unchanged
// @Summary Update department
// @Tags Departments
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Param body body services.DepartmentInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/departments/{id}/ [patch]
func (h *DepartmentHandler) Patch(c *fiber.Ctx) error {
	return h.update(c, false)
}

func (h *DepartmentHandler) update(c *fiber.Ctx, full bool) error {
	actor, ok := currentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid department ID")
	}

	var req services.DepartmentInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if full {
		if field := missingRequired(&req); field != "" {
			return response.ValidationFailed(c, field, "This field is required.")
		}
	}

	logo, done, err := logoUpload(c)
	if err != nil {
		return response.BadRequest(c, "Invalid logo upload")
	}
	defer done()

	dept, err := h.departmentService.Edit(c.UserContext(), actor, id, &req, logo)
	if err != nil {
		return respondError(c, err, "Failed to update department")
	}

	return response.Success(c, "Department updated successfully", dept.ToResponse())
}

// Delete handles deleting a department
// @Summary Delete department
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/departments/{id}/ [delete]
func (h *DepartmentHandler) Delete(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid department ID")
	}

	if err := h.departmentService.Delete(c.UserContext(), actor, id); err != nil {
		return respondError(c, err, "Failed to delete department")
	}

	return response.Success(c, "Department deleted successfully", nil)
}

func departmentResponses(depts []*models.Department) []*models.DepartmentResponse {
	return lo.Map(depts, func(d *models.Department, _ int) *models.DepartmentResponse {
		return d.ToResponse()
	})
}

// missingRequired returns the first core field absent from a full update
func missingRequired(req *services.DepartmentInput) string {
	switch {
	case req.DepartmentName == nil:
		return "department_name"
	case req.BusinessEmail == nil:
		return "business_email"
	case req.Email == nil:
		return "email"
	case req.PartnershipStatus == nil:
		return "partnership_status"
	}
	return ""
}

// logoUpload opens the uploaded logo of a multipart request.
// It returns a nil upload when the request carries no file; done must always be called.
func logoUpload(c *fiber.Ctx) (*services.LogoUpload, func(), error) {
	noop := func() {}

	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil, noop, nil
	}

	fh, err := c.FormFile(logoField)
	if err != nil {
		// no file part is not an error
		return nil, noop, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}

	return &services.LogoUpload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  f,
	}, func() { _ = f.Close() }, nil
}
