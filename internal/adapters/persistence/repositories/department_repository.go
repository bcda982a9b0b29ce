package repositories

import (
	"context"
	"errors"

	"osa-partnership/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// departmentRepository implements DepartmentRepository interface
type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

// Create creates a new department
func (r *departmentRepository) Create(ctx context.Context, dept *models.Department) error {
	return conn(ctx, r.db).Omit("Owner").Create(dept).Error
}

// GetByID gets a department by ID with its owner
func (r *departmentRepository) GetByID(ctx context.Context, id uint) (*models.Department, error) {
	var dept models.Department
	err := conn(ctx, r.db).Preload("Owner").First(&dept, id).Error
	if err != nil {
		return nil, err
	}
	ensureOwner(&dept)
	return &dept, nil
}

// Update saves every column; last_updated is refreshed by GORM
func (r *departmentRepository) Update(ctx context.Context, dept *models.Department) error {
	return conn(ctx, r.db).Omit("Owner").Save(dept).Error
}

// UpdateRemarks changes only the remarks column (and last_updated)
func (r *departmentRepository) UpdateRemarks(ctx context.Context, id uint, remarks string) error {
	result := conn(ctx, r.db).
		Model(&models.Department{ID: id}).
		Update("remarks_status", remarks)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete deletes a department
func (r *departmentRepository) Delete(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Delete(&models.Department{}, id).Error
}

// List lists departments with pagination
func (r *departmentRepository) List(ctx context.Context, filter DepartmentFilter, offset, limit int) ([]*models.Department, int64, error) {
	var depts []*models.Department
	var total int64

	query := func() *gorm.DB {
		q := conn(ctx, r.db).Model(&models.Department{})
		if filter.OwnerID != nil {
			q = q.Where("owner_id = ?", *filter.OwnerID)
		}
		if filter.Status != "" {
			q = q.Where("partnership_status = ?", filter.Status)
		}
		return q
	}

	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := query().Preload("Owner").Order("id ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&depts).Error; err != nil {
		return nil, 0, err
	}

	for _, d := range depts {
		ensureOwner(d)
	}
	return depts, total, nil
}

// FindAnyIDByOwner returns one department owned by ownerID, or 0 when there is none
func (r *departmentRepository) FindAnyIDByOwner(ctx context.Context, ownerID uint) (uint, error) {
	var dept models.Department
	err := conn(ctx, r.db).Select("id").Where("owner_id = ?", ownerID).Take(&dept).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return dept.ID, nil
}

// ListByOwner lists every department owned by ownerID
func (r *departmentRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*models.Department, error) {
	var depts []*models.Department
	err := conn(ctx, r.db).Preload("Owner").Where("owner_id = ?", ownerID).Order("id ASC").Find(&depts).Error
	return depts, err
}

// DeleteByOwner deletes every department owned by ownerID
func (r *departmentRepository) DeleteByOwner(ctx context.Context, ownerID uint) error {
	return conn(ctx, r.db).Where("owner_id = ?", ownerID).Delete(&models.Department{}).Error
}

// Count counts all departments
func (r *departmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Department{}).Count(&count).Error
	return count, err
}

// CountByStatus counts departments grouped by partnership status
func (r *departmentRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		PartnershipStatus string
		Total             int64
	}
	err := conn(ctx, r.db).
		Model(&models.Department{}).
		Select("partnership_status, COUNT(*) AS total").
		Group("partnership_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.PartnershipStatus] = row.Total
	}
	return counts, nil
}

// ensureOwner marks a missing owner row with an empty User so callers
// can tell "not preloaded" from "owner gone".
func ensureOwner(d *models.Department) {
	if d.Owner == nil {
		d.Owner = &models.User{}
	}
}
