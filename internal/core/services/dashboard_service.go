package services

import (
	"context"

	"osa-partnership/internal/adapters/persistence/models"
	"osa-partnership/internal/adapters/persistence/repositories"
	"osa-partnership/internal/core/domain"
	"osa-partnership/internal/pkg/pagination"

	"github.com/samber/lo"
)

// DashboardService builds the landing pages
type DashboardService struct {
	deptRepo    repositories.DepartmentRepository
	userRepo    repositories.UserRepository
	departments *DepartmentService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	deptRepo repositories.DepartmentRepository,
	userRepo repositories.UserRepository,
	departments *DepartmentService,
) *DashboardService {
	return &DashboardService{
		deptRepo:    deptRepo,
		userRepo:    userRepo,
		departments: departments,
	}
}

// AdminStats are the admin landing counters
type AdminStats struct {
	TotalDepartments     int64 `json:"total_departments"`
	ActivePartnerships   int64 `json:"active_partnerships"`
	PendingPartnerships  int64 `json:"pending_partnerships"`
	InactivePartnerships int64 `json:"inactive_partnerships"`
	TotalUsers           int64 `json:"total_users"`
}

// AdminPanelData represents the admin landing
type AdminPanelData struct {
	Stats       AdminStats                   `json:"stats"`
	Departments []*models.DepartmentResponse `json:"departments"`
	UserEmail   string                       `json:"user_email"`
}

// OwnerPanelData represents the owner landing
type OwnerPanelData struct {
	Profile     *models.ProfileResponse      `json:"profile"`
	UserEmail   string                       `json:"user_email"`
	Departments []*models.DepartmentResponse `json:"departments"`
}

// DashboardData represents the generic dashboard
type DashboardData struct {
	Departments []*models.DepartmentResponse `json:"departments"`
	Meta        *pagination.Meta             `json:"meta"`
}

// AdminPanel returns statistics and every department
func (s *DashboardService) AdminPanel(ctx context.Context, actor domain.Actor) (*AdminPanelData, error) {
	if err := domain.Authorize(actor, domain.ActionAccessAdminPanel, nil).Err(domain.ActionAccessAdminPanel); err != nil {
		return nil, err
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	depts, _, err := s.deptRepo.List(ctx, repositories.DepartmentFilter{}, 0, 0)
	if err != nil {
		return nil, domain.PersistenceError("list departments", err)
	}

	return &AdminPanelData{
		Stats:       *stats,
		Departments: toDepartmentResponses(depts),
		UserEmail:   actor.Email,
	}, nil
}

// Stats counts departments by status and users
func (s *DashboardService) Stats(ctx context.Context) (*AdminStats, error) {
	byStatus, err := s.deptRepo.CountByStatus(ctx)
	if err != nil {
		return nil, domain.PersistenceError("count departments", err)
	}

	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, domain.PersistenceError("count users", err)
	}

	return &AdminStats{
		TotalDepartments:     lo.Sum(lo.Values(byStatus)),
		ActivePartnerships:   byStatus[string(domain.StatusActive)],
		PendingPartnerships:  byStatus[string(domain.StatusPending)],
		InactivePartnerships: byStatus[string(domain.StatusInactive)],
		TotalUsers:           users,
	}, nil
}

// OwnerPanel returns the actor's profile and owned departments
func (s *DashboardService) OwnerPanel(ctx context.Context, actor domain.Actor) (*OwnerPanelData, error) {
	depts, err := s.departments.ListOwned(ctx, actor)
	if err != nil {
		return nil, err
	}

	data := &OwnerPanelData{
		UserEmail:   actor.Email,
		Departments: toDepartmentResponses(depts),
	}
	if actor.Profile != nil {
		data.Profile = &models.ProfileResponse{
			BusinessEmail:  actor.Profile.BusinessEmail,
			DepartmentName: actor.Profile.DepartmentName,
			ContactPerson:  actor.Profile.ContactPerson,
			ContactNumber:  actor.Profile.ContactNumber,
			UserType:       string(actor.Profile.UserType),
		}
	}
	return data, nil
}

// Dashboard lists departments per the list rule
func (s *DashboardService) Dashboard(ctx context.Context, actor domain.Actor, p pagination.Params, status string) (*DashboardData, error) {
	depts, total, err := s.departments.List(ctx, actor, p, status)
	if err != nil {
		return nil, err
	}
	return &DashboardData{
		Departments: toDepartmentResponses(depts),
		Meta:        p.MetaFor(total),
	}, nil
}

func toDepartmentResponses(depts []*models.Department) []*models.DepartmentResponse {
	return lo.Map(depts, func(d *models.Department, _ int) *models.DepartmentResponse {
		return d.ToResponse()
	})
}
