package notification

import "backend/internal/model"

// statusMessages maps each report status to the citizen-facing message sent
// when a report lands on it.
var statusMessages = map[model.ReportStatus]string{
	model.StatusValidasi:    "Laporan Anda telah diterima dan sedang menunggu validasi",
	model.StatusTervalidasi: "Laporan Anda telah divalidasi dan akan segera ditangani",
	model.StatusDalamProses: "Laporan Anda sedang dalam proses penanganan oleh petugas",
	model.StatusSelesai:     "Laporan Anda telah selesai ditangani. Terima kasih atas partisipasi Anda",
	model.StatusDitolak:     "Mohon maaf, laporan Anda ditolak",
}

// MessageFor composes the citizen-facing message for a status change. The
// rejection reason is appended when the report was rejected.
func MessageFor(status model.ReportStatus, reason string) string {
	msg, ok := statusMessages[status]
	if !ok {
		return "Status laporan Anda telah diperbarui menjadi " + string(status)
	}
	if status == model.StatusDitolak && reason != "" {
		return msg + ". Alasan: " + reason
	}
	return msg
}
