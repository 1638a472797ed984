package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ginjaninja78/computesales/internal/catalogue"
	"github.com/ginjaninja78/computesales/internal/config"
	"github.com/ginjaninja78/computesales/internal/document"
	"github.com/ginjaninja78/computesales/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const penCatalogue = `[{"title":"Pen","price":1.5}]`

type fixture struct {
	dir string
	cfg *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.ResultsFile = filepath.Join(dir, "SalesResults.txt")
	return &fixture{dir: dir, cfg: cfg}
}

func (f *fixture) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (f *fixture) run(t *testing.T, catalogueJSON, salesJSON string) (*Outcome, error) {
	t.Helper()
	cat := f.write(t, "catalogue.json", catalogueJSON)
	sal := f.write(t, "sales.json", salesJSON)
	return New(f.cfg, nil).Run(cat, sal)
}

func TestRun_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		sales    string
		total    string
		errors   []string
		warnings []string
	}{
		{
			name:  "Matching sale",
			sales: `[{"Product":"Pen","Quantity":4}]`,
			total: "6.00",
		},
		{
			name:     "Unknown product",
			sales:    `[{"Product":"Book","Quantity":2}]`,
			total:    "0.00",
			warnings: []string{"product not found: 'Book'"},
		},
		{
			name:   "Negative quantity",
			sales:  `[{"Product":"Pen","Quantity":-1}]`,
			total:  "0.00",
			errors: []string{"negative quantity for 'Pen' (-1)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			outcome, err := f.run(t, penCatalogue, tt.sales)
			require.NoError(t, err)

			result := outcome.Report.Result
			assert.Equal(t, tt.total, result.Total.StringFixed(2))
			assert.ElementsMatch(t, tt.errors, result.Errors)
			assert.ElementsMatch(t, tt.warnings, result.Warnings)
			assert.Equal(t, 1, outcome.Report.Products)

			data, err := os.ReadFile(outcome.ResultsFile)
			require.NoError(t, err)
			assert.Contains(t, string(data), "TOTAL COST: "+tt.total)
		})
	}
}

func TestRun_CatalogueNotAList(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.run(t, `{"title":"Pen","price":1.5}`, `[{"Product":"Pen","Quantity":4}]`)

	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, types.ErrSchema)
	assert.NoFileExists(t, f.cfg.ResultsFile)
}

func TestRun_SalesNotAList(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, penCatalogue, `{"Product":"Pen"}`)

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrSchema)
	assert.NoFileExists(t, f.cfg.ResultsFile)
}

func TestRun_UnreadableDocument(t *testing.T) {
	f := newFixture(t)
	sal := f.write(t, "sales.json", `[]`)

	_, err := New(f.cfg, nil).Run(filepath.Join(f.dir, "missing.json"), sal)

	var loadErr *document.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.NoFileExists(t, f.cfg.ResultsFile)
}

func TestRun_CollectsCatalogueDiagnostics(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.run(t,
		`[{"title":"Pen","price":1.5},{"title":"Bad","price":-1},7]`,
		`[{"Product":"Pen","Quantity":2},{"Product":"Bad","Quantity":1}]`)
	require.NoError(t, err)

	require.Len(t, outcome.CatalogueDiagnostics, 2)
	assert.ErrorIs(t, outcome.CatalogueDiagnostics[0].Err, catalogue.ErrNegativePrice)
	assert.ErrorIs(t, outcome.CatalogueDiagnostics[1].Err, catalogue.ErrInvalidItem)

	assert.Equal(t, "3.00", outcome.Report.Result.Total.StringFixed(2))
	assert.Equal(t, []string{"product not found: 'Bad'"}, outcome.Report.Result.Warnings)
}

func TestRun_ResolvesOutputPlaceholdersAndWorkbook(t *testing.T) {
	f := newFixture(t)
	f.cfg.ResultsFile = filepath.Join(f.dir, "reports", "sales_{date}.txt")
	f.cfg.WorkbookFile = filepath.Join(f.dir, "reports", "sales_{run}.xlsx")

	cat := f.write(t, "catalogue.json", penCatalogue)
	sal := f.write(t, "sales.json", `[{"Product":"Pen","Quantity":4}]`)

	p := New(f.cfg, nil)
	p.now = func() time.Time { return time.Date(2024, time.March, 9, 10, 0, 0, 0, time.UTC) }

	outcome, err := p.Run(cat, sal)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(f.dir, "reports", "sales_20240309.txt"), outcome.ResultsFile)
	assert.FileExists(t, outcome.ResultsFile)

	assert.Equal(t, filepath.Join(f.dir, "reports", "sales_"+outcome.Report.RunID+".xlsx"), outcome.WorkbookFile)
	assert.FileExists(t, outcome.WorkbookFile)
}
