// =============================================================================
// Sales Calculator - Pipeline Module
// =============================================================================
//
// This module orchestrates one sales computation run, from reading the two
// JSON documents to writing the report files.
//
// PIPELINE:
//   1. Load the catalogue and sales documents
//   2. Build the price index from the catalogue
//   3. Aggregate the sales against the price index
//   4. Write the text report (and the optional workbook)
//
// FATAL CONDITIONS:
//   An unreadable document, or a document whose top-level value is not a
//   list, aborts the run before any report is written.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/computesales/internal/catalogue"
	"github.com/ginjaninja78/computesales/internal/config"
	"github.com/ginjaninja78/computesales/internal/document"
	"github.com/ginjaninja78/computesales/internal/logging"
	"github.com/ginjaninja78/computesales/internal/report"
	"github.com/ginjaninja78/computesales/internal/sales"
	"github.com/ginjaninja78/computesales/internal/types"
	"github.com/ginjaninja78/computesales/pkg/utils"
	"go.uber.org/zap"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Outcome describes a completed run.
type Outcome struct {
	// Report is the rendered run report.
	Report *report.Report

	// ResultsFile is the path the text report was written to.
	ResultsFile string

	// WorkbookFile is the path of the XLSX export, empty when disabled.
	WorkbookFile string

	// CatalogueDiagnostics holds the rejected catalogue entries.
	CatalogueDiagnostics []types.Diagnostic
}

// =============================================================================
// PIPELINE STRUCTURE
// =============================================================================

// Pipeline runs sales computations with a fixed configuration.
type Pipeline struct {
	cfg    *config.Config
	logger *zap.Logger

	// now is replaceable for tests.
	now func() time.Time
}

// New creates a Pipeline. A nil logger disables logging.
func New(cfg *config.Config, logger *zap.Logger) *Pipeline {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, logger: logger, now: time.Now}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run computes the sales total for the given catalogue and sales files and
// writes the configured outputs.
func (p *Pipeline) Run(cataloguePath, salesPath string) (*Outcome, error) {
	start := p.now()
	rep := report.New(cataloguePath, salesPath)
	log := p.logger.With(zap.String("run_id", rep.RunID))

	// =========================================================================
	// STEP 1: LOAD DOCUMENTS
	// =========================================================================

	catalogueDoc, err := document.Load(cataloguePath)
	if err != nil {
		return nil, err
	}
	salesDoc, err := document.Load(salesPath)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded documents",
		zap.String("catalogue", cataloguePath),
		zap.String("sales", salesPath))

	// =========================================================================
	// STEP 2: BUILD PRICE INDEX
	// =========================================================================

	var catalogueIssues types.Collector
	sink := logging.NewSink(log)

	index, err := catalogue.BuildPriceIndex(catalogueDoc, types.Tee(sink, &catalogueIssues))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cataloguePath, err)
	}
	rep.Products = index.Len()
	log.Debug("built price index",
		zap.Int("products", index.Len()),
		zap.Int("rejected", len(catalogueIssues.Diagnostics)))

	// =========================================================================
	// STEP 3: AGGREGATE SALES
	// =========================================================================

	result, err := sales.Aggregate(index, salesDoc, sink)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", salesPath, err)
	}
	rep.Result = result
	rep.Elapsed = p.now().Sub(start)

	log.Info("computed sales total",
		zap.String("total", result.Total.StringFixed(2)),
		zap.Int("rows", result.RowsRead),
		zap.Int("counted", result.RowsCounted),
		zap.Int("errors", len(result.Errors)),
		zap.Int("warnings", len(result.Warnings)))

	// =========================================================================
	// STEP 4: WRITE OUTPUTS
	// =========================================================================

	outcome := &Outcome{
		Report:               rep,
		CatalogueDiagnostics: catalogueIssues.Diagnostics,
	}

	outcome.ResultsFile = utils.ResolveOutputPath(p.cfg.ResultsFile, start, rep.RunID)
	if utils.FileExists(outcome.ResultsFile) {
		log.Debug("overwriting results file", zap.String("path", outcome.ResultsFile))
	}
	if err := rep.WriteFile(outcome.ResultsFile); err != nil {
		return nil, err
	}
	log.Debug("wrote results file", zap.String("path", outcome.ResultsFile))

	if p.cfg.WorkbookFile != "" {
		outcome.WorkbookFile = utils.ResolveOutputPath(p.cfg.WorkbookFile, start, rep.RunID)
		if err := rep.WriteWorkbook(outcome.WorkbookFile); err != nil {
			return nil, err
		}
		log.Debug("wrote workbook", zap.String("path", outcome.WorkbookFile))
	}

	return outcome, nil
}
