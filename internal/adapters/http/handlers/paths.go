package handlers

import (
	"fmt"

	"osa-partnership/internal/core/domain"
)

// Browser route paths
const (
	WebPrefix      = "/partnership"
	LoginPath      = WebPrefix + "/"
	DashboardPath  = WebPrefix + "/dashboard/"
	AdminPanelPath = WebPrefix + "/admin-panel/"
	OwnerPanelPath = WebPrefix + "/owner-panel/"
)

// DepartmentPath is the detail page of a department
func DepartmentPath(id uint) string {
	return fmt.Sprintf("%s/department/%d/", WebPrefix, id)
}

// LandingPath turns a dispatch decision into a browser path
func LandingPath(l domain.Landing) string {
	switch l.Kind {
	case domain.LandingAdmin:
		return AdminPanelPath
	case domain.LandingDepartment:
		return DepartmentPath(l.DepartmentID)
	default:
		return DashboardPath
	}
}
