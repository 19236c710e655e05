package services

import (
	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/models"
)

// Renderer turns a table into a printable document.
type Renderer interface {
	Render(title string, headers []string, rows [][]string) ([]byte, error)
}

// Report is the outcome of a filtered export. Content is nil when nothing
// matched.
type Report struct {
	FileName string
	Matches  int
	Content  []byte
}

// ReportService filters the snapshot and renders the PDF report.
type ReportService struct {
	renderer Renderer
	clock    Clock
}

func NewReportService(r Renderer, clock Clock) *ReportService {
	return &ReportService{renderer: r, clock: clock}
}

// FileName is the download name of a report produced today.
func (s *ReportService) FileName() string {
	return "Report_WO_Filtrato_" + s.clock.Today().Format("2006-01-02") + ".pdf"
}

// Export renders the orders of snapshot matching f. Zero matches is not an
// error: the returned Report carries no content.
func (s *ReportService) Export(snapshot []models.Order, f ReportFilter, lang string) (*Report, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if s.renderer == nil {
		return nil, &domain.DependencyError{Dependency: "pdf renderer"}
	}
	matched := PdfFilter(snapshot, f)
	if len(matched) == 0 {
		return &Report{Matches: 0}, nil
	}
	table := BuildReportTable(matched, lang)
	content, err := s.renderer.Render(table.Title, table.Headers, table.Rows)
	if err != nil {
		return nil, err
	}
	return &Report{FileName: s.FileName(), Matches: len(matched), Content: content}, nil
}
