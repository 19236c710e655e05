package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/models"
)

func searchFixture() []models.Order {
	return []models.Order{
		order("10001", "042", models.DateOf(2024, time.January, 10), withSurname("Rossi")),
		order("10002", "142", models.DateOf(2024, time.March, 1), withSurname("De Rossi")),
		order("10003", "007", models.DateOf(2024, time.February, 20), withSurname("Verdi")),
		order("10004", "042", models.DateOf(2023, time.June, 1), withSurname("Rossini")),
	}
}

func numbers(orders []models.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.OrderNumber
	}
	return out
}

func TestDefaultSince(t *testing.T) {
	assert.Equal(t, models.DateOf(2023, time.September, 15), DefaultSince(models.DateOf(2024, time.March, 15)))
}

func TestDetailSearch(t *testing.T) {
	since := models.DateOf(2023, time.December, 1)

	got, err := DetailSearch(searchFixture(), SearchQuery{Surname: "ROSSI", Since: since})
	require.NoError(t, err)
	assert.Equal(t, []string{"10002", "10001"}, numbers(got), "newest first, old orders excluded")

	got, err = DetailSearch(searchFixture(), SearchQuery{Bin: "42", Since: since})
	require.NoError(t, err)
	assert.Equal(t, []string{"10002", "10001"}, numbers(got), "bin matches as a substring")

	got, err = DetailSearch(searchFixture(), SearchQuery{Surname: "rossi", Bin: "042", Since: models.DateOf(2020, time.January, 1)})
	require.NoError(t, err)
	assert.Equal(t, []string{"10001", "10004"}, numbers(got))
}

func TestSearchRequiresAFilter(t *testing.T) {
	_, err := DetailSearch(searchFixture(), SearchQuery{Surname: "  "})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "required", ve.Fields["surname"])
}

func TestSearchNoResults(t *testing.T) {
	got, err := StatusSearch(searchFixture(), SearchQuery{Surname: "Rossi", Since: models.DateOf(2025, time.January, 1)})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStatusSearch(t *testing.T) {
	orders := searchFixture()
	orders[0].Status = models.StatusReady
	got, err := StatusSearch(orders, SearchQuery{Bin: "042", Since: models.DateOf(2024, time.January, 1)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, StatusView{
		ID:              "id-10001",
		CustomerSurname: "Rossi",
		Date:            models.DateOf(2024, time.January, 10),
		BinReference:    "042",
		Status:          models.StatusReady,
	}, got[0])
}

func TestSortNewestFirst(t *testing.T) {
	day := models.DateOf(2024, time.March, 1)
	at := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	orders := []models.Order{
		order("10001", "001", day, withCreated(at)),
		order("10002", "001", models.DateOf(2024, time.March, 2)),
		order("10003", "001", day, withCreated(at.Add(time.Minute))),
		order("10000", "001", day, withCreated(at)),
	}
	SortNewestFirst(orders)
	assert.Equal(t, []string{"10002", "10003", "10001", "10000"}, numbers(orders))
}

func reportFixture() []models.Order {
	return []models.Order{
		order("10005", "001", models.DateOf(2024, time.March, 31), withSeller("Anna"), withStatus(models.StatusReady)),
		order("10001", "002", models.DateOf(2024, time.March, 1), withSeller("Luca"), withTreatments(models.TreatmentSOS)),
		order("10003", "003", models.DateOf(2024, time.March, 10), withSeller("anna"), withLens(models.LensOffice)),
		order("10002", "004", models.DateOf(2024, time.March, 10), withSeller("Anna"), withRank(models.RankSecond)),
		order("10009", "005", models.DateOf(2024, time.April, 1), withSeller("Anna")),
	}
}

func marchFilter() ReportFilter {
	return ReportFilter{Start: models.DateOf(2024, time.March, 1), End: models.DateOf(2024, time.March, 31)}
}

func TestPdfFilter(t *testing.T) {
	got := PdfFilter(reportFixture(), marchFilter())
	assert.Equal(t, []string{"10001", "10002", "10003", "10005"}, numbers(got), "chronological, ends inclusive")

	f := marchFilter()
	f.Seller = "ANNA "
	assert.Equal(t, []string{"10002", "10003", "10005"}, numbers(PdfFilter(reportFixture(), f)))

	f = marchFilter()
	f.Treatment = models.TreatmentSOS
	assert.Equal(t, []string{"10001"}, numbers(PdfFilter(reportFixture(), f)))

	f = marchFilter()
	f.LensType = models.LensOffice
	assert.Equal(t, []string{"10003"}, numbers(PdfFilter(reportFixture(), f)))

	f = marchFilter()
	f.OrderRank = models.RankSecond
	assert.Equal(t, []string{"10002"}, numbers(PdfFilter(reportFixture(), f)))

	f = marchFilter()
	f.Statuses = []models.OrderStatus{models.StatusReady, models.StatusDelivered}
	assert.Equal(t, []string{"10005"}, numbers(PdfFilter(reportFixture(), f)))
}

func TestPdfFilterEmptyStatusesMatchAll(t *testing.T) {
	all := marchFilter()
	all.Statuses = models.AllStatuses
	assert.Equal(t, numbers(PdfFilter(reportFixture(), all)), numbers(PdfFilter(reportFixture(), marchFilter())))
}

func TestReportFilterValidate(t *testing.T) {
	require.NoError(t, marchFilter().Validate())

	var ve *domain.ValidationError
	require.ErrorAs(t, ReportFilter{}.Validate(), &ve)
	assert.Equal(t, map[string]string{"start": "required", "end": "required"}, ve.Fields)

	f := marchFilter()
	f.End = models.DateOf(2024, time.February, 1)
	f.Statuses = []models.OrderStatus{"LOST"}
	require.ErrorAs(t, f.Validate(), &ve)
	assert.Equal(t, map[string]string{"end": "invalid_range", "status": "invalid_value"}, ve.Fields)
}

func TestBuildReportTable(t *testing.T) {
	o := order("12345", "042", models.DateOf(2024, time.March, 5),
		withAmount("99.5"), withTreatments(models.TreatmentTransition, models.TreatmentBlueLight))
	table := BuildReportTable([]models.Order{o}, "it")

	require.Len(t, table.Headers, 10)
	assert.Equal(t, "Data", table.Headers[0])
	assert.Equal(t, "Importo (€)", table.Headers[8])
	require.Len(t, table.Rows, 1)
	row := table.Rows[0]
	assert.Equal(t, "05/03/2024", row[0])
	assert.Equal(t, "Rossi", row[1])
	assert.Equal(t, "042", row[5])
	assert.Equal(t, "12345", row[6])
	assert.Equal(t, "99.50", row[8])
	assert.Contains(t, row[9], ", ")
}

type fakeRenderer struct {
	title string
	rows  [][]string
	err   error
}

func (f *fakeRenderer) Render(title string, _ []string, rows [][]string) ([]byte, error) {
	f.title, f.rows = title, rows
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

func TestReportExport(t *testing.T) {
	r := &fakeRenderer{}
	svc := NewReportService(r, testClock())

	rep, err := svc.Export(reportFixture(), marchFilter(), "it")
	require.NoError(t, err)
	assert.Equal(t, 4, rep.Matches)
	assert.Equal(t, "Report_WO_Filtrato_2024-03-15.pdf", rep.FileName)
	assert.Equal(t, []byte("%PDF-fake"), rep.Content)
	assert.Len(t, r.rows, 4)
}

func TestReportExportNoMatches(t *testing.T) {
	r := &fakeRenderer{}
	svc := NewReportService(r, testClock())
	f := marchFilter()
	f.Seller = "Nobody"

	rep, err := svc.Export(reportFixture(), f, "it")
	require.NoError(t, err)
	assert.Zero(t, rep.Matches)
	assert.Nil(t, rep.Content)
	assert.Nil(t, r.rows, "renderer is not called")
}

func TestReportExportWithoutRenderer(t *testing.T) {
	svc := NewReportService(nil, testClock())
	_, err := svc.Export(reportFixture(), marchFilter(), "it")
	assert.ErrorIs(t, err, domain.ErrDependencyUnavailable)
}
