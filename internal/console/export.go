package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var (
	// ErrNothingToExport signals an empty visible row set; no file and
	// no export-count call are produced.
	ErrNothingToExport = errors.New("no rows to export")
	// ErrExportInFlight rejects a second export for an entity whose
	// export is still running.
	ErrExportInFlight = errors.New("export already in progress")
)

// recordTimeout bounds the fire-and-forget export-count call.
const recordTimeout = 5 * time.Second

// ExportFile is a ready-to-download spreadsheet.
type ExportFile struct {
	Name string
	Data []byte
}

// Exporter serializes the currently visible row set of an entity into
// an xlsx workbook with one sheet named after the entity. The export
// counter is bumped asynchronously; a failure there is logged and
// never undoes a completed download.
type Exporter struct {
	gw  Gateway
	log *zap.Logger
	now func() time.Time

	mu       sync.Mutex
	inFlight map[Entity]bool
}

func NewExporter(gw Gateway, log *zap.Logger) *Exporter {
	return &Exporter{
		gw:       gw,
		log:      log,
		now:      time.Now,
		inFlight: make(map[Entity]bool),
	}
}

// Export builds the workbook for the given rows. Columns are the raw
// field set of the records, untransformed; the filename carries an
// ISO-date suffix.
func (e *Exporter) Export(ctx context.Context, entity Entity, rows []Record) (*ExportFile, error) {
	if len(rows) == 0 {
		return nil, ErrNothingToExport
	}

	e.mu.Lock()
	if e.inFlight[entity] {
		e.mu.Unlock()
		return nil, ErrExportInFlight
	}
	e.inFlight[entity] = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.inFlight, entity)
		e.mu.Unlock()
	}()

	f := excelize.NewFile()
	defer f.Close()

	sheet := string(entity)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, 0, len(rows[0].Columns()))
	for _, col := range rows[0].Columns() {
		header = append(header, col)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		values := row.Values()
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	name := fmt.Sprintf("%s_export_%s.xlsx", entity, e.now().UTC().Format("2006-01-02"))

	go e.recordExport(entity)

	return &ExportFile{Name: name, Data: buf.Bytes()}, nil
}

func (e *Exporter) recordExport(entity Entity) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := e.gw.RecordExport(ctx, entity); err != nil {
		e.log.Warn("export count not recorded",
			zap.String("entity", string(entity)),
			zap.Error(err),
		)
	}
}
