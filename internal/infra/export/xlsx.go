package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/lead-manager/internal/entity"
)

const SheetName = "Leads"

var LeadHeader = []any{
	"ID", "First Name", "Last Name", "Full Name", "Email", "Phone", "Company", "City", "State",
	"Source", "Status", "Score", "Lead Value", "Qualified", "Last Activity", "Assigned To",
	"Notes", "Created At", "Updated At",
}

// LeadWorkbook streams leads into a single-sheet workbook. Rows are
// written as they arrive; nothing is buffered per lead.
type LeadWorkbook struct {
	file   *excelize.File
	stream *excelize.StreamWriter
	row    int
}

func NewLeadWorkbook() (*LeadWorkbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open stream writer: %w", err)
	}
	if err := sw.SetColWidth(1, len(LeadHeader), 18); err != nil {
		f.Close()
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := sw.SetRow("A1", LeadHeader, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	return &LeadWorkbook{file: f, stream: sw, row: 1}, nil
}

func (w *LeadWorkbook) WriteLead(l *entity.Lead) error {
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	return w.stream.SetRow(cell, []any{
		l.ID,
		l.FirstName,
		l.LastName,
		l.FullName(),
		l.Email,
		l.Phone,
		l.Company,
		l.City,
		l.State,
		l.Source.String(),
		l.Status.String(),
		l.Score,
		l.LeadValue,
		l.IsQualified,
		formatTime(l.LastActivityAt),
		deref(l.AssignedTo),
		l.Notes,
		l.CreatedAt.UTC().Format(time.RFC3339),
		l.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

// Rows is the number of lead rows written so far.
func (w *LeadWorkbook) Rows() int { return w.row - 1 }

// WriteTo flushes the stream and writes the finished workbook.
func (w *LeadWorkbook) WriteTo(out io.Writer) (int64, error) {
	if err := w.stream.Flush(); err != nil {
		return 0, fmt.Errorf("flush rows: %w", err)
	}
	return w.file.WriteTo(out)
}

func (w *LeadWorkbook) Close() error {
	return w.file.Close()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
