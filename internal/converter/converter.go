// =============================================================================
// EDITHOR - Converter Module
// =============================================================================
//
// This module runs the conversion pipeline for a single PDF document.
//
// CONVERSION PIPELINE:
//   1. Check that the spreadsheet template is usable
//   2. Extract the text of every page
//   3. Fold the pages through the order parser (fresh state per document)
//   4. Project each order onto its own copy of the template
//   5. Collect statistics and the summed order amounts
//
// A failure is reported in the Result and never panics or aborts the batch.
// Orders without line items are skipped, not failed. Spreadsheets written
// before a failing order are left in place and listed in the Result.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/edithor/internal/logging"
	"github.com/ginjaninja78/edithor/internal/orderparser"
	"github.com/ginjaninja78/edithor/internal/pdftext"
	"github.com/ginjaninja78/edithor/internal/types"
	"github.com/ginjaninja78/edithor/internal/xlsxwriter"
	"github.com/ginjaninja78/edithor/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single document.
type Result struct {
	// FilePath is the path to the input PDF.
	FilePath string

	// OutputFiles lists the spreadsheets written, in order. When a write
	// fails midway it still holds the files written before the failure.
	OutputFiles []string

	// Orders holds every order the parser produced, written or not.
	Orders []types.Order

	// Skipped is the number of orders refused for having no line items.
	Skipped int

	// TotalAmount sums the order totals that could be parsed.
	TotalAmount decimal.Decimal

	// Success indicates whether the document was processed.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	Pages          int
	OrdersParsed   int
	OrdersWritten  int
	LineItems      int
	ProcessingTime time.Duration
}

// =============================================================================
// COLLABORATORS
// =============================================================================

// PageSource yields the text of a document, one string per page.
type PageSource interface {
	Pages() iter.Seq[string]
	Close() error
}

// OpenFunc opens the document at path.
type OpenFunc func(path string) (PageSource, error)

func openPDF(path string) (PageSource, error) {
	doc, err := pdftext.Open(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Options configures a Converter.
type Options struct {
	TemplatePath  string
	OutputDir     string
	UnitOfMeasure string

	// DryRun parses documents without writing any spreadsheet.
	DryRun bool
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter turns PDF documents into one spreadsheet per order.
type Converter struct {
	opts      Options
	parser    *orderparser.Parser
	projector *xlsxwriter.Projector
	open      OpenFunc
	logger    logging.Logger
}

// New creates a Converter. corrector is applied to every line item
// identifier; a nil logger discards log output.
func New(opts Options, corrector orderparser.Corrector, logger logging.Logger) *Converter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Converter{
		opts:      opts,
		parser:    orderparser.New(corrector),
		projector: xlsxwriter.New(opts.TemplatePath, opts.UnitOfMeasure),
		open:      openPDF,
		logger:    logger,
	}
}

// WithOpener returns a copy of c that reads documents through open.
func (c *Converter) WithOpener(open OpenFunc) *Converter {
	cp := *c
	cp.open = open
	return &cp
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the document at path.
func (c *Converter) Run(path string) (result Result) {
	startTime := time.Now()
	result = Result{FilePath: path}
	log := c.logger.With(logging.F("file", path))

	defer func() {
		result.Stats.ProcessingTime = time.Since(startTime)
	}()

	// =========================================================================
	// STEP 1: CHECK TEMPLATE
	// =========================================================================

	if !c.opts.DryRun {
		if err := c.projector.CheckTemplate(); err != nil {
			result.Error = fmt.Errorf("template unavailable: %w", err)
			return result
		}
	}

	// =========================================================================
	// STEP 2 & 3: EXTRACT AND PARSE
	// =========================================================================

	log.Info("processing document")

	orders, pages, err := c.parse(path)
	if err != nil {
		result.Error = err
		return result
	}
	result.Orders = orders
	result.Stats.Pages = pages
	result.Stats.OrdersParsed = len(orders)

	log.Debug("parsed document", logging.F("pages", pages), logging.F("orders", len(orders)))

	// =========================================================================
	// STEP 4: PROJECT ORDERS
	// =========================================================================

	result.TotalAmount = decimal.Zero
	for _, order := range orders {
		orderLog := log.With(logging.F("order", order.Number))
		result.Stats.LineItems += len(order.Items)

		if order.TotalAmount != "" {
			amount, err := utils.ParseAmount(order.TotalAmount)
			if err != nil {
				orderLog.Debug("ignoring unreadable total", logging.F("total", order.TotalAmount))
			} else {
				result.TotalAmount = result.TotalAmount.Add(amount)
			}
		}

		if !order.HasItems() {
			result.Skipped++
			orderLog.Warn("skipping order without line items")
			continue
		}

		if c.opts.DryRun {
			continue
		}

		outputPath, err := c.projector.ProjectToDir(order, c.opts.OutputDir)
		if errors.Is(err, xlsxwriter.ErrNoLineItems) {
			result.Skipped++
			continue
		}
		if err != nil {
			result.Error = fmt.Errorf("failed to write order %q: %w", order.Number, err)
			return result
		}

		result.OutputFiles = append(result.OutputFiles, outputPath)
		result.Stats.OrdersWritten++
		orderLog.Info("wrote order", logging.F("output", outputPath), logging.F("items", len(order.Items)))
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	result.Success = true
	return result
}

// parse extracts the pages of the document and folds them into orders.
func (c *Converter) parse(path string) (orders []types.Order, pages int, err error) {
	src, err := c.open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open document: %w", err)
	}
	defer src.Close()

	// The PDF reader panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			orders, err = nil, fmt.Errorf("failed to read document: %v", r)
		}
	}()

	counted := func(yield func(string) bool) {
		for text := range src.Pages() {
			pages++
			if !yield(text) {
				return
			}
		}
	}

	orders = c.parser.ParseDocument(counted)
	return orders, pages, nil
}
