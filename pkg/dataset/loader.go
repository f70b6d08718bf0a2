package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/raykavin/trendline/pkg/core"
	"github.com/raykavin/trendline/pkg/logger"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// Loader reads chart input files from disk or over HTTP
type Loader struct {
	client *http.Client
	sheet  string
	log    logger.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithHTTPClient sets the client used for http(s) sources
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		l.client = client
	}
}

// WithSheet selects the workbook sheet read from .xlsx sources
func WithSheet(sheet string) Option {
	return func(l *Loader) {
		l.sheet = sheet
	}
}

// NewLoader creates a loader; sources are read as CSV unless they end in .xlsx
func NewLoader(log logger.Logger, options ...Option) *Loader {
	loader := &Loader{
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}

	for _, option := range options {
		option(loader)
	}

	return loader
}

// Load reads source and converts every record with conv.
// Malformed numbers never fail the load; they are reported once as a warning.
func (l *Loader) Load(ctx context.Context, source string, conv Converter) (*core.Dataset, error) {
	records, err := l.Records(ctx, source)
	if err != nil {
		return nil, err
	}

	ds := &core.Dataset{Axis: conv.Axis()}
	if len(records) == 0 {
		return ds, nil
	}

	header := lo.Map(records[0], func(h string, _ int) string {
		return strings.TrimSpace(h)
	})
	if len(header) < 2 {
		return nil, fmt.Errorf("%s: %w", source, core.ErrNoSeries)
	}

	ds.TimeColumn = header[0]
	ds.Columns = header[1:]
	ds.Rows = make([]core.Row, 0, len(records)-1)

	malformed := 0
	for i, record := range records[1:] {
		row, err := conv.Convert(header, record)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", source, i+2, err)
		}

		malformed += lo.CountBy(ds.Columns, func(column string) bool {
			return math.IsNaN(row.Values[column])
		})
		ds.Rows = append(ds.Rows, row)
	}

	log := l.log.WithFields(map[string]any{
		"source": source,
		"rows":   len(ds.Rows),
		"series": len(ds.Columns),
	})
	if malformed > 0 {
		log.Warnf("%d malformed values read as NaN", malformed)
	}
	log.Debug("dataset loaded")

	return ds, nil
}

// Records returns the raw cells of source, header first
func (l *Loader) Records(ctx context.Context, source string) ([][]string, error) {
	if strings.TrimSpace(source) == "" {
		return nil, core.ErrEmptySource
	}

	body, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	if strings.EqualFold(filepath.Ext(sourcePath(source)), ".xlsx") {
		return l.readWorkbook(body, source)
	}

	return readCSV(body, source)
}

// LoadEvents reads a marker file with a "date" column (YYYY-MM-DD) and an optional "label" column.
// Rows with an unparseable date are skipped.
func (l *Loader) LoadEvents(ctx context.Context, source string) ([]core.Event, error) {
	records, err := l.Records(ctx, source)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, nil
	}

	dateIdx, labelIdx := -1, -1
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date":
			dateIdx = i
		case "label", "event", "name":
			labelIdx = i
		}
	}

	if dateIdx < 0 {
		return nil, fmt.Errorf("%s: missing date column", source)
	}

	events := make([]core.Event, 0, len(records)-1)
	skipped := 0
	for _, record := range records[1:] {
		date, err := time.ParseInLocation(DayLayout, strings.TrimSpace(cell(record, dateIdx)), time.UTC)
		if err != nil {
			skipped++
			continue
		}

		event := core.Event{Date: date}
		if labelIdx >= 0 {
			event.Label = strings.TrimSpace(cell(record, labelIdx))
		}
		events = append(events, event)
	}

	if skipped > 0 {
		l.log.WithField("source", source).Warnf("%d events skipped with invalid dates", skipped)
	}

	return events, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !isURL(source) {
		file, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		return file, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", source, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %w: %s", source, core.ErrUnexpectedStatus, resp.Status)
	}

	return resp.Body, nil
}

func (l *Loader) readWorkbook(r io.Reader, source string) ([][]string, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", source, err)
	}
	defer book.Close()

	sheet := l.sheet
	if sheet == "" {
		sheets := book.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		sheet = sheets[0]
	}

	rows, err := book.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", sheet, source, err)
	}

	return rows, nil
}

func readCSV(r io.Reader, source string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}

	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], utf8BOM)
	}

	return records, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// sourcePath strips the query string so extension checks work on URLs
func sourcePath(source string) string {
	if i := strings.IndexAny(source, "?#"); i >= 0 && isURL(source) {
		return source[:i]
	}
	return source
}
