package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
)

// ResidentFilter carries the search parameters for resident lookup.
// String fields are matched as case-insensitive substrings where noted.
type ResidentFilter struct {
	Name                string // substring
	RoomNumber          string // exact
	DietaryRestrictions string // substring
	Station             string // exact
	TableNumber         string // exact
	Active              *bool
	Page                int
	Limit               int
}

func (f *ResidentFilter) normalize() {
	f.Page, f.Limit = NormalizePage(f.Page, f.Limit)
}

// ResidentRepository defines resident persistence operations.
type ResidentRepository interface {
	Create(ctx context.Context, resident *model.Resident) error
	Update(ctx context.Context, resident *model.Resident) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Resident, error)
	Search(ctx context.Context, filter ResidentFilter) ([]model.Resident, int64, error)
}

type residentRepository struct {
	db *gorm.DB
}

// NewResidentRepository creates a new resident repository.
func NewResidentRepository(db *gorm.DB) ResidentRepository {
	return &residentRepository{db: db}
}

// Create creates a new resident.
func (r *residentRepository) Create(ctx context.Context, resident *model.Resident) error {
	return r.db.WithContext(ctx).Create(resident).Error
}

// Update updates an existing resident.
func (r *residentRepository) Update(ctx context.Context, resident *model.Resident) error {
	return r.db.WithContext(ctx).Save(resident).Error
}

// Delete soft-deletes a resident. Order history stays readable.
func (r *residentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Resident{}, id).Error
}

// FindByID finds a resident by ID.
func (r *residentRepository) FindByID(ctx context.Context, id uint) (*model.Resident, error) {
	var resident model.Resident
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&resident).Error; err != nil {
		return nil, err
	}
	return &resident, nil
}

// Search returns a page of residents matching the filter plus the total count.
func (r *residentRepository) Search(ctx context.Context, filter ResidentFilter) ([]model.Resident, int64, error) {
	filter.normalize()

	q := r.db.WithContext(ctx).Model(&model.Resident{})
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.RoomNumber != "" {
		q = q.Where("room_number = ?", filter.RoomNumber)
	}
	if filter.DietaryRestrictions != "" {
		q = q.Where("dietary_restrictions ILIKE ?", "%"+filter.DietaryRestrictions+"%")
	}
	if filter.Station != "" {
		q = q.Where("station = ?", filter.Station)
	}
	if filter.TableNumber != "" {
		q = q.Where("table_number = ?", filter.TableNumber)
	}
	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var residents []model.Resident
	offset := (filter.Page - 1) * filter.Limit
	if err := q.Order("room_number, name").Offset(offset).Limit(filter.Limit).Find(&residents).Error; err != nil {
		return nil, 0, err
	}
	return residents, total, nil
}
