package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rosterhq/workforce-api/internal/dto"
	"github.com/rosterhq/workforce-api/pkg/config"
	appErrors "github.com/rosterhq/workforce-api/pkg/errors"
	"github.com/rosterhq/workforce-api/pkg/export"
	"github.com/rosterhq/workforce-api/pkg/jobs"
	"github.com/rosterhq/workforce-api/pkg/storage"
)

const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type exportPayload struct {
	Report   *dto.ScheduleReport
	Filename string
	Format   string
}

// ExportService renders schedule reports to CSV or PDF in the background
// and hands out signed download URLs for the resulting files.
type ExportService struct {
	queue  *jobs.Queue
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	store  *storage.ExportStore
	signer *storage.SignedURLSigner
	logger *zap.Logger
}

// NewExportService wires the export pipeline. Returns nil when exports are
// disabled; callers treat a nil service as "feature off".
func NewExportService(cfg config.ExportsConfig, logger *zap.Logger) (*ExportService, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := storage.NewExportStore(cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("init export store: %w", err)
	}

	s := &ExportService{
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		store:  store,
		signer: storage.NewSignedURLSigner(cfg.SignedURLSecret, cfg.SignedURLTTL),
		logger: logger,
	}
	s.queue = jobs.NewQueue("report-exports", s.process, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return s, nil
}

// Start launches the export workers.
func (s *ExportService) Start(ctx context.Context) {
	if s == nil {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the queue and stops the workers.
func (s *ExportService) Stop() {
	if s == nil {
		return
	}
	s.queue.Stop()
}

// Enabled reports whether exports are configured.
func (s *ExportService) Enabled() bool {
	return s != nil
}

// Queue schedules an export of the given report and returns the job
// descriptor with a signed download URL. The file may not exist yet when
// the caller follows the URL; workers usually finish within a second.
func (s *ExportService) Queue(report *dto.ScheduleReport, format string) (*dto.ExportReportResponse, error) {
	if s == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "report exports are disabled")
	}
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	jobID := uuid.NewString()
	filename := fmt.Sprintf("schedule_%d_%s.%s", report.ID, jobID, format)

	token, expiresAt, err := s.signer.Generate(jobID, filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download URL")
	}

	err = s.queue.Enqueue(jobs.Job{
		ID:      jobID,
		Type:    format,
		Payload: exportPayload{Report: report, Filename: filename, Format: format},
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}

	return &dto.ExportReportResponse{
		JobID:       jobID,
		File:        filename,
		DownloadURL: "/exports/download?token=" + token,
		ExpiresAt:   expiresAt,
	}, nil
}

// ResolveDownload verifies a signed token and opens the exported file.
func (s *ExportService) ResolveDownload(token string) (*os.File, string, error) {
	if s == nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "report exports are disabled")
	}

	_, filename, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download link")
	}

	file, err := s.store.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export not ready or no longer available")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export")
	}
	return file, filename, nil
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exportPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}

	data := reportDataset(payload.Report)

	var rendered []byte
	var err error
	switch payload.Format {
	case FormatCSV:
		rendered, err = s.csv.Render(data)
	case FormatPDF:
		title := fmt.Sprintf("Schedule Report: %s", payload.Report.Name)
		rendered, err = s.pdf.Render(data, title)
	default:
		return fmt.Errorf("unsupported format %q", payload.Format)
	}
	if err != nil {
		return fmt.Errorf("render %s export: %w", payload.Format, err)
	}

	if err := s.store.Save(payload.Filename, rendered); err != nil {
		return fmt.Errorf("store export: %w", err)
	}

	s.logger.Info("export ready",
		zap.String("job_id", job.ID),
		zap.String("file", payload.Filename),
		zap.Int("bytes", len(rendered)))
	return nil
}

func reportDataset(report *dto.ScheduleReport) export.Dataset {
	headers := []string{"Shift ID", "Staff", "Start", "End", "Type", "Status", "Clock In", "Clock Out", "Late"}
	rows := make([]map[string]string, 0, len(report.Shifts))
	for _, shift := range report.Shifts {
		rows = append(rows, map[string]string{
			"Shift ID":  fmt.Sprintf("%d", shift.ID),
			"Staff":     orDash(shift.StaffName),
			"Start":     shift.StartTime.Format(time.RFC3339),
			"End":       shift.EndTime.Format(time.RFC3339),
			"Type":      shift.Type,
			"Status":    string(shift.Status),
			"Clock In":  formatClock(shift.ClockIn),
			"Clock Out": formatClock(shift.ClockOut),
			"Late":      fmt.Sprintf("%t", shift.IsLate),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func formatClock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}
