package console

import (
	"bytes"
	"context"
	"regexp"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestExportEmptySetRefused(t *testing.T) {
	gw := newFakeGateway(0)
	e := NewExporter(gw, zap.NewNop())

	if _, err := e.Export(context.Background(), EntityEvents, nil); err != ErrNothingToExport {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
	if got := gw.recordCalls.Load(); got != 0 {
		t.Fatalf("empty export must not bump the export counter, got %d calls", got)
	}
}

func TestExportFilenameAndSheet(t *testing.T) {
	gw := newFakeGateway(3)
	e := NewExporter(gw, zap.NewNop())

	rows := []Record{
		fakeRecord{id: "a", name: "Contracts I"},
		fakeRecord{id: "b", name: "Torts"},
	}
	file, err := e.Export(context.Background(), EntityOutlines, rows)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	pattern := regexp.MustCompile(`^outlines_export_\d{4}-\d{2}-\d{2}\.xlsx$`)
	if !pattern.MatchString(file.Name) {
		t.Fatalf("filename %q does not match export pattern", file.Name)
	}

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	found := false
	for _, sheet := range f.GetSheetList() {
		if sheet == "outlines" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a sheet named after the entity, got %v", f.GetSheetList())
	}

	if got, err := f.GetCellValue("outlines", "A1"); err != nil || got != "id" {
		t.Fatalf("expected header cell A1=id, got %q err=%v", got, err)
	}
	if got, err := f.GetCellValue("outlines", "B2"); err != nil || got != "Contracts I" {
		t.Fatalf("expected first data row untransformed, got %q err=%v", got, err)
	}
	if got, err := f.GetCellValue("outlines", "B3"); err != nil || got != "Torts" {
		t.Fatalf("expected second data row untransformed, got %q err=%v", got, err)
	}

	waitFor(t, func() bool { return gw.recordCalls.Load() == 1 })
}
