package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/models"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Lister is the read side of the store.
type Lister interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
}

type Exporter struct{ st Lister }

func NewExporter(st Lister) *Exporter { return &Exporter{st: st} }

// Export renders all tasks in the given format and returns the document
// with its content type.
func (e *Exporter) Export(ctx context.Context, format string) ([]byte, string, error) {
	format = strings.ToLower(format)
	switch format {
	case "json", "csv", "pdf":
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	tasks, err := e.st.ListTasks(ctx)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case "csv":
		b, err := toCSV(tasks)
		return b, "text/csv", err
	case "pdf":
		b, err := toPDF(tasks)
		return b, "application/pdf", err
	default:
		b, err := json.MarshalIndent(tasks, "", "  ")
		return b, "application/json", err
	}
}

func toCSV(tasks []models.Task) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "title", "description", "completed"})
	for _, t := range tasks {
		_ = w.Write([]string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			t.Description,
			strconv.FormatBool(t.Completed),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func toPDF(tasks []models.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Report")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	if len(tasks) == 0 {
		pdf.Cell(40, 6, "No tasks available.")
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("#%d [%s] %s - %s", t.ID, mark, t.Title, t.Description)
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
