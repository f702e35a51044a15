package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/campushq/horario-api/pkg/export"
	appErrors "github.com/campushq/horario-api/pkg/errors"
)

// ExportFormat names a supported download format.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered attachment ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders a student's weekly schedule as a downloadable file.
type ExportService struct {
	schedules studentScheduleReader
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(schedules studentScheduleReader, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{schedules: schedules, csv: csv, pdf: pdf, logger: logger}
}

var scheduleExportHeaders = []string{"Day", "Start", "End", "Course Code", "Course", "Room", "Manager"}

// StudentSchedule renders the student's full weekly schedule in the
// requested format.
func (s *ExportService) StudentSchedule(ctx context.Context, studentID string, format ExportFormat) (*ExportFile, error) {
	schedules, err := s.schedules.ListByStudent(ctx, studentID, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student schedule")
	}

	dataset := export.Dataset{Headers: scheduleExportHeaders}
	for _, sched := range schedules {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":         string(sched.Day),
			"Start":       sched.StartTime,
			"End":         sched.EndTime,
			"Course Code": sched.CourseCode,
			"Course":      sched.CourseName,
			"Room":        sched.RoomCode,
			"Manager":     sched.ManagerName,
		})
	}

	switch ExportFormat(strings.ToLower(string(format))) {
	case FormatCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("schedule-%s.csv", studentID),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case FormatPDF:
		data, err := s.pdf.Render(dataset, "Weekly Schedule")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("schedule-%s.pdf", studentID),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format, use csv or pdf")
	}
}
