package service

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateStaffRequest struct {
	Nama               string `json:"nama" binding:"required"`
	Alamat             string `json:"alamat"`
	Telepon            string `json:"telepon" binding:"required"`
	Email              string `json:"email" binding:"omitempty,email"`
	StatusKetersediaan string `json:"status_ketersediaan"`
}

type UpdateStaffRequest struct {
	Nama               string `json:"nama"`
	Alamat             string `json:"alamat"`
	Telepon            string `json:"telepon"`
	Email              string `json:"email" binding:"omitempty,email"`
	StatusKetersediaan string `json:"status_ketersediaan"`
}

type StaffResponse struct {
	ID                 string  `json:"id"`
	Nama               string  `json:"nama"`
	Alamat             string  `json:"alamat"`
	Telepon            string  `json:"telepon"`
	Email              *string `json:"email"`
	StatusKetersediaan string  `json:"status_ketersediaan"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

// --- Interface ---

// StaffService manages the field technician roster.
type StaffService interface {
	CreateStaff(ctx context.Context, req CreateStaffRequest) (*StaffResponse, error)
	GetStaff(ctx context.Context, id string) (*StaffResponse, error)
	ListStaff(ctx context.Context, availability string, page, limit int) ([]StaffResponse, int64, error)
	UpdateStaff(ctx context.Context, id string, req UpdateStaffRequest) (*StaffResponse, error)
	DeleteStaff(ctx context.Context, id string) error
}

type staffService struct {
	repo repository.StaffRepository
}

func NewStaffService(repo repository.StaffRepository) StaffService {
	return &staffService{repo: repo}
}

// --- Implementation ---

func (s *staffService) CreateStaff(ctx context.Context, req CreateStaffRequest) (*StaffResponse, error) {
	availability := model.StaffAktif
	if req.StatusKetersediaan != "" {
		availability = model.StaffAvailability(req.StatusKetersediaan)
		if !availability.Valid() {
			return nil, apperror.Validationf("unknown availability %q", req.StatusKetersediaan)
		}
	}

	staff := model.Staff{
		Nama:               req.Nama,
		Alamat:             req.Alamat,
		Telepon:            req.Telepon,
		StatusKetersediaan: availability,
	}
	if req.Email != "" {
		email := req.Email
		staff.Email = &email
	}

	if err := s.repo.Create(ctx, &staff); err != nil {
		return nil, apperror.Storagef("failed to create staff", err)
	}

	return toStaffResponse(&staff), nil
}

func (s *staffService) GetStaff(ctx context.Context, id string) (*StaffResponse, error) {
	staffID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validationf("invalid staff id %q", id)
	}

	staff, err := s.repo.FindByID(ctx, staffID)
	if err != nil {
		return nil, loadErr("staff", err)
	}

	return toStaffResponse(staff), nil
}

func (s *staffService) ListStaff(ctx context.Context, availability string, page, limit int) ([]StaffResponse, int64, error) {
	filter := model.StaffAvailability(availability)
	if availability != "" && !filter.Valid() {
		return nil, 0, apperror.Validationf("unknown availability %q", availability)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	staff, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, apperror.Storagef("failed to list staff", err)
	}

	result := make([]StaffResponse, 0, len(staff))
	for i := range staff {
		result = append(result, *toStaffResponse(&staff[i]))
	}

	return result, total, nil
}

func (s *staffService) UpdateStaff(ctx context.Context, id string, req UpdateStaffRequest) (*StaffResponse, error) {
	staffID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validationf("invalid staff id %q", id)
	}

	staff, err := s.repo.FindByID(ctx, staffID)
	if err != nil {
		return nil, loadErr("staff", err)
	}

	if req.StatusKetersediaan != "" {
		availability := model.StaffAvailability(req.StatusKetersediaan)
		if !availability.Valid() {
			return nil, apperror.Validationf("unknown availability %q", req.StatusKetersediaan)
		}
		staff.StatusKetersediaan = availability
	}
	if req.Nama != "" {
		staff.Nama = req.Nama
	}
	if req.Alamat != "" {
		staff.Alamat = req.Alamat
	}
	if req.Telepon != "" {
		staff.Telepon = req.Telepon
	}
	if req.Email != "" {
		email := req.Email
		staff.Email = &email
	}

	if err := s.repo.Update(ctx, staff); err != nil {
		return nil, apperror.Storagef("failed to update staff", err)
	}

	return toStaffResponse(staff), nil
}

func (s *staffService) DeleteStaff(ctx context.Context, id string) error {
	staffID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validationf("invalid staff id %q", id)
	}

	if _, err := s.repo.FindByID(ctx, staffID); err != nil {
		return loadErr("staff", err)
	}

	if err := s.repo.Delete(ctx, staffID); err != nil {
		return apperror.Storagef("failed to delete staff", err)
	}
	return nil
}

// --- Helpers ---

func toStaffResponse(staff *model.Staff) *StaffResponse {
	return &StaffResponse{
		ID:                 staff.ID.String(),
		Nama:               staff.Nama,
		Alamat:             staff.Alamat,
		Telepon:            staff.Telepon,
		Email:              staff.Email,
		StatusKetersediaan: string(staff.StatusKetersediaan),
		CreatedAt:          staff.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          staff.UpdatedAt.Format(time.RFC3339),
	}
}
