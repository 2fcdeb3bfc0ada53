package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReportStartsInValidasi(t *testing.T) {
	f := newFixture(t)
	userID := uuid.NewString()

	resp, err := f.reportSvc.CreateReport(context.Background(), userID, CreateReportRequest{
		Judul:        "Trotoar berlubang",
		Lokasi:       "Jl. Kenanga",
		Deskripsi:    "Lubang besar di depan sekolah",
		Kategori:     "jalan",
		NamaPelapor:  "Siti Rahma",
		EmailPelapor: "siti@example.com",
		FotoLaporan:  []string{"https://cdn.example.com/foto1.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusValidasi), resp.Status)
	assert.Equal(t, []string{"https://cdn.example.com/foto1.jpg"}, resp.FotoLaporan)
	assert.Empty(t, resp.FotoPerbaikan)
	require.NotNil(t, resp.UserID)
	assert.Equal(t, userID, *resp.UserID)
}

func TestCreateReportAnonymous(t *testing.T) {
	f := newFixture(t)

	resp, err := f.reportSvc.CreateReport(context.Background(), "", CreateReportRequest{
		Judul:       "Keran air bocor",
		Lokasi:      "Taman Kota",
		Deskripsi:   "Air terus mengalir",
		Kategori:    "air",
		NamaPelapor: "Warga",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.UserID)
}

func TestUpdateReportOnlyBeforeValidation(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	report := f.seedReport(t, model.StatusValidasi)
	report.UserID = &owner
	require.NoError(t, f.reports.Update(context.Background(), report))

	resp, err := f.reportSvc.UpdateReport(context.Background(), report.ID.String(), owner.String(), UpdateReportRequest{
		Judul: "Lampu jalan mati total",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lampu jalan mati total", resp.Judul)

	report.Status = model.StatusTervalidasi
	require.NoError(t, f.reports.Update(context.Background(), report))

	_, err = f.reportSvc.UpdateReport(context.Background(), report.ID.String(), owner.String(), UpdateReportRequest{
		Judul: "terlambat",
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestUpdateReportByNonOwner(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	report := f.seedReport(t, model.StatusValidasi)
	report.UserID = &owner
	require.NoError(t, f.reports.Update(context.Background(), report))

	// A stranger gets not-found, never a hint the report exists.
	_, err := f.reportSvc.UpdateReport(context.Background(), report.ID.String(), uuid.NewString(), UpdateReportRequest{
		Judul: "hijacked",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAddRepairEvidence(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusDalamProses)

	resp, err := f.reportSvc.AddRepairEvidence(context.Background(), report.ID.String(), AddRepairEvidenceRequest{
		FotoPerbaikan:   []string{"https://cdn.example.com/sesudah1.jpg"},
		RincianBiayaURL: "https://cdn.example.com/rincian.pdf",
		BiayaPerbaikan:  "1250000.50",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/sesudah1.jpg"}, resp.FotoPerbaikan)
	assert.Equal(t, "1250000.50", resp.BiayaPerbaikan)

	// A second batch appends, it does not replace.
	resp, err = f.reportSvc.AddRepairEvidence(context.Background(), report.ID.String(), AddRepairEvidenceRequest{
		FotoPerbaikan: []string{"https://cdn.example.com/sesudah2.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://cdn.example.com/sesudah1.jpg",
		"https://cdn.example.com/sesudah2.jpg",
	}, resp.FotoPerbaikan)
	assert.Equal(t, "1250000.50", resp.BiayaPerbaikan)
}

func TestAddRepairEvidenceRequiresInProgress(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusTervalidasi)

	_, err := f.reportSvc.AddRepairEvidence(context.Background(), report.ID.String(), AddRepairEvidenceRequest{
		FotoPerbaikan: []string{"https://cdn.example.com/sesudah.jpg"},
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestAddRepairEvidenceRejectsBadCost(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusDalamProses)

	for _, cost := range []string{"abc", "-100"} {
		_, err := f.reportSvc.AddRepairEvidence(context.Background(), report.ID.String(), AddRepairEvidenceRequest{
			FotoPerbaikan:  []string{"https://cdn.example.com/sesudah.jpg"},
			BiayaPerbaikan: cost,
		})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	}
}

func TestRateReport(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	report := f.seedReport(t, model.StatusSelesai)
	report.UserID = &owner
	require.NoError(t, f.reports.Update(context.Background(), report))

	resp, err := f.reportSvc.RateReport(context.Background(), report.ID.String(), owner.String(), RateReportRequest{
		Rating: 5,
		Ulasan: "cepat dan rapi",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Rating)
	assert.Equal(t, 5, *resp.Rating)
	assert.Equal(t, "cepat dan rapi", resp.Ulasan)
}

func TestRateReportRequiresCompletion(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	report := f.seedReport(t, model.StatusDalamProses)
	report.UserID = &owner
	require.NoError(t, f.reports.Update(context.Background(), report))

	_, err := f.reportSvc.RateReport(context.Background(), report.ID.String(), owner.String(), RateReportRequest{
		Rating: 4,
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestListReportsByStatus(t *testing.T) {
	f := newFixture(t)
	f.seedReport(t, model.StatusValidasi)
	f.seedReport(t, model.StatusTervalidasi)
	f.seedReport(t, model.StatusTervalidasi)

	all, total, err := f.reportSvc.ListReports(context.Background(), "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	validated, total, err := f.reportSvc.ListReports(context.Background(), string(model.StatusTervalidasi), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, validated, 2)

	_, _, err = f.reportSvc.ListReports(context.Background(), "Aneh", 1, 20)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestListMyReports(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	mine := f.seedReport(t, model.StatusValidasi)
	mine.UserID = &owner
	require.NoError(t, f.reports.Update(context.Background(), mine))
	f.seedReport(t, model.StatusValidasi)

	reports, total, err := f.reportSvc.ListMyReports(context.Background(), owner.String(), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, reports, 1)
	assert.Equal(t, mine.ID.String(), reports[0].ID)
}
