package service

import (
	"context"
	"encoding/json"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// --- DTOs ---

type CreateReportRequest struct {
	Judul          string   `json:"judul" binding:"required"`
	Lokasi         string   `json:"lokasi" binding:"required"`
	Deskripsi      string   `json:"deskripsi" binding:"required"`
	Kategori       string   `json:"kategori" binding:"required"`
	NamaPelapor    string   `json:"nama_pelapor" binding:"required"`
	EmailPelapor   string   `json:"email_pelapor" binding:"omitempty,email"`
	TeleponPelapor string   `json:"telepon_pelapor"`
	FotoLaporan    []string `json:"foto_laporan"` // already-hosted URLs, stored verbatim
}

type UpdateReportRequest struct {
	Judul          string   `json:"judul"`
	Lokasi         string   `json:"lokasi"`
	Deskripsi      string   `json:"deskripsi"`
	Kategori       string   `json:"kategori"`
	TeleponPelapor string   `json:"telepon_pelapor"`
	FotoLaporan    []string `json:"foto_laporan"`
}

type AddRepairEvidenceRequest struct {
	FotoPerbaikan   []string `json:"foto_perbaikan" binding:"required,min=1"`
	RincianBiayaURL string   `json:"rincian_biaya_url"`
	BiayaPerbaikan  string   `json:"biaya_perbaikan"` // decimal string, e.g. "1250000.00"
}

type RateReportRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Ulasan string `json:"ulasan"`
}

type ReportResponse struct {
	ID              string               `json:"id"`
	Judul           string               `json:"judul"`
	Lokasi          string               `json:"lokasi"`
	Deskripsi       string               `json:"deskripsi"`
	Kategori        string               `json:"kategori"`
	NamaPelapor     string               `json:"nama_pelapor"`
	EmailPelapor    string               `json:"email_pelapor"`
	TeleponPelapor  string               `json:"telepon_pelapor"`
	FotoLaporan     []string             `json:"foto_laporan"`
	FotoPerbaikan   []string             `json:"foto_perbaikan"`
	RincianBiayaURL string               `json:"rincian_biaya_url,omitempty"`
	BiayaPerbaikan  string               `json:"biaya_perbaikan"`
	Status          string               `json:"status"`
	AlasanPenolakan string               `json:"alasan_penolakan,omitempty"`
	Rating          *int                 `json:"rating,omitempty"`
	Ulasan          string               `json:"ulasan,omitempty"`
	UserID          *string              `json:"user_id,omitempty"`
	Petugas         []AssignmentResponse `json:"petugas,omitempty"`
	CreatedAt       string               `json:"created_at"`
	UpdatedAt       string               `json:"updated_at"`
}

// --- Interface ---

// ReportService covers the report CRUD around the lifecycle: submission,
// reading, pre-validation edits, repair evidence and the citizen rating.
// Status changes live in LifecycleService.
type ReportService interface {
	CreateReport(ctx context.Context, userID string, req CreateReportRequest) (*ReportResponse, error)
	GetReport(ctx context.Context, id string) (*ReportResponse, error)
	ListReports(ctx context.Context, status string, page, limit int) ([]ReportResponse, int64, error)
	ListMyReports(ctx context.Context, userID string, page, limit int) ([]ReportResponse, int64, error)
	UpdateReport(ctx context.Context, id, userID string, req UpdateReportRequest) (*ReportResponse, error)
	AddRepairEvidence(ctx context.Context, id string, req AddRepairEvidenceRequest) (*ReportResponse, error)
	RateReport(ctx context.Context, id, userID string, req RateReportRequest) (*ReportResponse, error)
}

type reportService struct {
	reports repository.ReportRepository
}

func NewReportService(reports repository.ReportRepository) ReportService {
	return &reportService{reports: reports}
}

// --- Implementation ---

// CreateReport stores a new citizen submission. Every report starts in
// Validasi and waits for an administrator.
func (s *reportService) CreateReport(ctx context.Context, userID string, req CreateReportRequest) (*ReportResponse, error) {
	report := model.Report{
		Judul:          req.Judul,
		Lokasi:         req.Lokasi,
		Deskripsi:      req.Deskripsi,
		Kategori:       req.Kategori,
		NamaPelapor:    req.NamaPelapor,
		EmailPelapor:   req.EmailPelapor,
		TeleponPelapor: req.TeleponPelapor,
		FotoLaporan:    encodePhotoList(req.FotoLaporan),
		FotoPerbaikan:  encodePhotoList(nil),
		Status:         model.StatusValidasi,
	}

	if userID != "" {
		parsed, err := uuid.Parse(userID)
		if err != nil {
			return nil, apperror.Validationf("invalid user id %q", userID)
		}
		report.UserID = &parsed
	}

	if err := s.reports.Create(ctx, &report); err != nil {
		return nil, apperror.Storagef("failed to create report", err)
	}

	return toReportResponse(&report), nil
}

func (s *reportService) GetReport(ctx context.Context, id string) (*ReportResponse, error) {
	reportID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validationf("invalid report id %q", id)
	}

	report, err := s.reports.FindByIDWithAssignments(ctx, reportID)
	if err != nil {
		return nil, loadErr("report", err)
	}

	return toReportResponse(report), nil
}

func (s *reportService) ListReports(ctx context.Context, status string, page, limit int) ([]ReportResponse, int64, error) {
	filter := model.ReportStatus(status)
	if status != "" && !filter.Valid() {
		return nil, 0, apperror.Validationf("unknown report status %q", status)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	reports, total, err := s.reports.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, apperror.Storagef("failed to list reports", err)
	}

	return toReportResponses(reports), total, nil
}

func (s *reportService) ListMyReports(ctx context.Context, userID string, page, limit int) ([]ReportResponse, int64, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, apperror.Validationf("invalid user id %q", userID)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	reports, total, err := s.reports.ListByUser(ctx, id, page, limit)
	if err != nil {
		return nil, 0, apperror.Storagef("failed to list reports", err)
	}

	return toReportResponses(reports), total, nil
}

// UpdateReport lets the reporter fix details while the report still waits for
// validation. Once an administrator touched it, edits are refused.
func (s *reportService) UpdateReport(ctx context.Context, id, userID string, req UpdateReportRequest) (*ReportResponse, error) {
	reportID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validationf("invalid report id %q", id)
	}

	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, loadErr("report", err)
	}

	if err := requireOwner(report, userID); err != nil {
		return nil, err
	}
	if report.Status != model.StatusValidasi {
		return nil, apperror.Conflictf("report is already %s and can no longer be edited", report.Status)
	}

	if req.Judul != "" {
		report.Judul = req.Judul
	}
	if req.Lokasi != "" {
		report.Lokasi = req.Lokasi
	}
	if req.Deskripsi != "" {
		report.Deskripsi = req.Deskripsi
	}
	if req.Kategori != "" {
		report.Kategori = req.Kategori
	}
	if req.TeleponPelapor != "" {
		report.TeleponPelapor = req.TeleponPelapor
	}
	if req.FotoLaporan != nil {
		report.FotoLaporan = encodePhotoList(req.FotoLaporan)
	}

	if err := s.reports.Update(ctx, report); err != nil {
		return nil, apperror.Storagef("failed to update report", err)
	}

	return toReportResponse(report), nil
}

// AddRepairEvidence records already-hosted proof-of-repair URLs and the cost
// figure on an in-progress report. The URLs are stored verbatim; uploading
// happens elsewhere.
func (s *reportService) AddRepairEvidence(ctx context.Context, id string, req AddRepairEvidenceRequest) (*ReportResponse, error) {
	reportID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validationf("invalid report id %q", id)
	}

	cost := decimal.Zero
	if req.BiayaPerbaikan != "" {
		cost, err = decimal.NewFromString(req.BiayaPerbaikan)
		if err != nil || cost.IsNegative() {
			return nil, apperror.Validationf("invalid repair cost %q", req.BiayaPerbaikan)
		}
	}

	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, loadErr("report", err)
	}

	if report.Status != model.StatusDalamProses {
		return nil, apperror.Conflictf("repair evidence requires a report in %s, got %s",
			model.StatusDalamProses, report.Status)
	}

	existing := decodePhotoList(report.FotoPerbaikan)
	report.FotoPerbaikan = encodePhotoList(append(existing, req.FotoPerbaikan...))
	if req.RincianBiayaURL != "" {
		report.RincianBiayaURL = req.RincianBiayaURL
	}
	if !cost.IsZero() {
		report.BiayaPerbaikan = cost
	}

	if err := s.reports.Update(ctx, report); err != nil {
		return nil, apperror.Storagef("failed to update report", err)
	}

	return toReportResponse(report), nil
}

// RateReport records the reporter's rating once the report is done.
func (s *reportService) RateReport(ctx context.Context, id, userID string, req RateReportRequest) (*ReportResponse, error) {
	reportID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validationf("invalid report id %q", id)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperror.Validationf("rating must be between 1 and 5")
	}

	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, loadErr("report", err)
	}

	if err := requireOwner(report, userID); err != nil {
		return nil, err
	}
	if report.Status != model.StatusSelesai {
		return nil, apperror.Conflictf("only completed reports can be rated, report is %s", report.Status)
	}

	rating := req.Rating
	report.Rating = &rating
	report.Ulasan = req.Ulasan
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, apperror.Storagef("failed to update report", err)
	}

	return toReportResponse(report), nil
}

// --- Helpers ---

func requireOwner(report *model.Report, userID string) error {
	if report.UserID == nil || report.UserID.String() != userID {
		return apperror.NotFoundf("report not found")
	}
	return nil
}

// encodePhotoList stores an ordered URL list as a JSON column. A nil list is
// stored as an empty array, not null.
func encodePhotoList(urls []string) datatypes.JSON {
	if urls == nil {
		urls = []string{}
	}
	encoded, _ := json.Marshal(urls)
	return datatypes.JSON(encoded)
}

func decodePhotoList(raw datatypes.JSON) []string {
	var urls []string
	if len(raw) == 0 {
		return urls
	}
	_ = json.Unmarshal(raw, &urls)
	return urls
}

func toReportResponse(r *model.Report) *ReportResponse {
	resp := &ReportResponse{
		ID:              r.ID.String(),
		Judul:           r.Judul,
		Lokasi:          r.Lokasi,
		Deskripsi:       r.Deskripsi,
		Kategori:        r.Kategori,
		NamaPelapor:     r.NamaPelapor,
		EmailPelapor:    r.EmailPelapor,
		TeleponPelapor:  r.TeleponPelapor,
		FotoLaporan:     decodePhotoList(r.FotoLaporan),
		FotoPerbaikan:   decodePhotoList(r.FotoPerbaikan),
		RincianBiayaURL: r.RincianBiayaURL,
		BiayaPerbaikan:  r.BiayaPerbaikan.StringFixed(2),
		Status:          string(r.Status),
		AlasanPenolakan: r.AlasanPenolakan,
		Rating:          r.Rating,
		Ulasan:          r.Ulasan,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}

	if r.UserID != nil {
		id := r.UserID.String()
		resp.UserID = &id
	}
	for _, a := range r.Assignments {
		resp.Petugas = append(resp.Petugas, toAssignmentResponse(a))
	}

	return resp
}

func toReportResponses(reports []model.Report) []ReportResponse {
	result := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		result = append(result, *toReportResponse(&reports[i]))
	}
	return result
}
