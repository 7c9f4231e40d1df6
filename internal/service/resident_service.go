package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/KooroshTorabi/meal-planner-sub002/internal/errors"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/repository"
)

// ResidentInput carries the writable resident fields.
type ResidentInput struct {
	Name                string
	RoomNumber          string
	TableNumber         string
	Station             string
	DietaryRestrictions string
	Aversions           string
	SpecialNotes        string
	HighCalorie         bool
	Active              *bool
}

// ResidentService exposes resident operations.
type ResidentService interface {
	CreateResident(ctx context.Context, input ResidentInput) (*model.Resident, error)
	GetResident(ctx context.Context, id uint) (*model.Resident, error)
	SearchResidents(ctx context.Context, filter repository.ResidentFilter) ([]model.Resident, int64, error)
	UpdateResident(ctx context.Context, id uint, input ResidentInput) (*model.Resident, error)
	DeleteResident(ctx context.Context, id uint) error
}

type residentService struct {
	repo repository.ResidentRepository
}

// NewResidentService builds a ResidentService.
func NewResidentService(repo repository.ResidentRepository) ResidentService {
	return &residentService{repo: repo}
}

// validateResident enforces the required fields. Name and room number
// must be non-empty after trimming.
func validateResident(input ResidentInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(input.RoomNumber) == "" {
		return fmt.Errorf("%w: room number is required", apperrors.ErrValidation)
	}
	return nil
}

// CreateResident creates a resident. New residents are active unless
// the input says otherwise.
func (s *residentService) CreateResident(ctx context.Context, input ResidentInput) (*model.Resident, error) {
	if err := validateResident(input); err != nil {
		return nil, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	resident := &model.Resident{
		Name:                strings.TrimSpace(input.Name),
		RoomNumber:          strings.TrimSpace(input.RoomNumber),
		TableNumber:         input.TableNumber,
		Station:             input.Station,
		DietaryRestrictions: input.DietaryRestrictions,
		Aversions:           input.Aversions,
		SpecialNotes:        input.SpecialNotes,
		HighCalorie:         input.HighCalorie,
		Active:              active,
	}
	if err := s.repo.Create(ctx, resident); err != nil {
		return nil, fmt.Errorf("create resident: %w", err)
	}
	return resident, nil
}

// GetResident fetches a resident by ID.
func (s *residentService) GetResident(ctx context.Context, id uint) (*model.Resident, error) {
	resident, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrResidentNotFound
		}
		return nil, err
	}
	return resident, nil
}

// SearchResidents returns a page of residents matching the filter.
func (s *residentService) SearchResidents(ctx context.Context, filter repository.ResidentFilter) ([]model.Resident, int64, error) {
	return s.repo.Search(ctx, filter)
}

// UpdateResident replaces the writable fields of a resident.
func (s *residentService) UpdateResident(ctx context.Context, id uint, input ResidentInput) (*model.Resident, error) {
	if err := validateResident(input); err != nil {
		return nil, err
	}

	resident, err := s.GetResident(ctx, id)
	if err != nil {
		return nil, err
	}

	resident.Name = strings.TrimSpace(input.Name)
	resident.RoomNumber = strings.TrimSpace(input.RoomNumber)
	resident.TableNumber = input.TableNumber
	resident.Station = input.Station
	resident.DietaryRestrictions = input.DietaryRestrictions
	resident.Aversions = input.Aversions
	resident.SpecialNotes = input.SpecialNotes
	resident.HighCalorie = input.HighCalorie
	if input.Active != nil {
		resident.Active = *input.Active
	}

	if err := s.repo.Update(ctx, resident); err != nil {
		return nil, fmt.Errorf("update resident: %w", err)
	}
	return resident, nil
}

// DeleteResident soft-deletes a resident.
func (s *residentService) DeleteResident(ctx context.Context, id uint) error {
	if _, err := s.GetResident(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
