package service

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/state"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
	"github.com/noah-isme/campus-console/pkg/export"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type documentRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ExportFile is a rendered report ready to be sent.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the reports data as a downloadable document.
type ExportService struct {
	csv    documentRenderer
	pdf    documentRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(csv, pdf documentRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Report renders data in the requested format.
func (s *ExportService) Report(data models.ReportData, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	var (
		renderer    documentRenderer
		contentType string
	)
	switch format {
	case FormatCSV:
		renderer, contentType = s.csv, "text/csv"
	case FormatPDF:
		renderer, contentType = s.pdf, "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedExport, "unsupported export format "+format)
	}

	generated := s.now().UTC()
	body, err := renderer.Render(reportDocument(data, generated))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	s.logger.Info("report exported", zap.String("format", format), zap.Int("bytes", len(body)))
	return &ExportFile{
		Filename:    "institution-report-" + generated.Format("20060102") + "." + format,
		ContentType: contentType,
		Body:        body,
	}, nil
}

func reportDocument(d models.ReportData, generated time.Time) export.Document {
	metrics := export.Table{Title: "Key metrics", Dataset: export.Dataset{Headers: []string{"Metric", "Value"}}}
	for _, row := range [][2]string{
		{"Total enrollment", state.Int(d.KeyMetrics.TotalEnrollment.Int()).Display()},
		{"Active courses", state.Int(d.KeyMetrics.ActiveCourses.Int()).Display()},
		{"Average attendance (%)", state.FromMetric(d.KeyMetrics.AverageAttendance, 1).Display()},
		{"Average GPA", state.FromMetric(d.KeyMetrics.AverageGPA, 2).Display()},
	} {
		metrics.Rows = append(metrics.Rows, map[string]string{"Metric": row[0], "Value": row[1]})
	}

	trend := export.Table{Title: "Enrollment trend", Dataset: export.Dataset{Headers: []string{"Month", "Students"}}}
	for _, p := range d.EnrollmentTrend {
		trend.Rows = append(trend.Rows, map[string]string{"Month": p.Month, "Students": strconv.Itoa(p.Students.Int())})
	}

	weekly := export.Table{Title: "Weekly attendance", Dataset: export.Dataset{Headers: []string{"Day", "Attendance (%)"}}}
	for _, p := range d.WeeklyAttendance {
		weekly.Rows = append(weekly.Rows, map[string]string{"Day": p.Day, "Attendance (%)": state.FromMetric(p.Percentage, 1).Display()})
	}

	departments := export.Table{Title: "Department distribution", Dataset: export.Dataset{Headers: []string{"Department", "Students"}}}
	for _, p := range d.DepartmentDistribution {
		departments.Rows = append(departments.Rows, map[string]string{"Department": p.Name, "Students": strconv.Itoa(p.Value.Int())})
	}

	performance := export.Table{Title: "Performance distribution", Dataset: export.Dataset{Headers: []string{"GPA range", "Students"}}}
	for _, p := range d.PerformanceDistribution {
		performance.Rows = append(performance.Rows, map[string]string{"GPA range": p.Range, "Students": strconv.Itoa(p.Students.Int())})
	}

	return export.Document{
		Title:    "Institution Report",
		Subtitle: "Generated " + generated.Format(time.RFC1123),
		Tables:   []export.Table{metrics, trend, weekly, departments, performance},
	}
}
