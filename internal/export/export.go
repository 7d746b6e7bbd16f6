package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/calclab/internal/quad"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatSVG  Format = "svg"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCSV, FormatSVG:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, csv or svg)", s)
}

// Document is an exported integral with its visualization data.
type Document struct {
	ID           string              `json:"id"`
	Expr         string              `json:"expr"`
	Created      time.Time           `json:"created"`
	Subdivisions int                 `json:"subdivisions"`
	Data         *quad.Visualization `json:"data"`
}

func NewDocument(exprText string, subdivisions int, v *quad.Visualization) *Document {
	return &Document{
		ID:           uuid.NewString(),
		Expr:         exprText,
		Created:      time.Now().UTC(),
		Subdivisions: subdivisions,
		Data:         v,
	}
}

func WriteJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteCSV writes one row per Riemann rectangle.
func WriteCSV(w io.Writer, r *quad.RiemannResult) error {
	if r == nil {
		return fmt.Errorf("export: no riemann data to write")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "left", "width", "height", "area"}); err != nil {
		return err
	}
	for _, rect := range r.Rectangles {
		row := []string{
			strconv.Itoa(rect.Index),
			strconv.FormatFloat(rect.Left, 'f', 6, 64),
			strconv.FormatFloat(rect.Width, 'f', 6, 64),
			strconv.FormatFloat(rect.Height, 'f', 6, 64),
			strconv.FormatFloat(rect.Area, 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write encodes doc in the given format.
func Write(w io.Writer, format Format, doc *Document) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, doc)
	case FormatCSV:
		return WriteCSV(w, doc.Data.Riemann)
	case FormatSVG:
		_, err := io.WriteString(w, SVG(doc.Data, doc.Expr, 800, 500))
		return err
	}
	return fmt.Errorf("export: unsupported format %q", format)
}

// ToFile writes doc to path, or to stdout when path is "" or "-".
func ToFile(path string, format Format, doc *Document) error {
	if path == "" || path == "-" {
		return Write(os.Stdout, format, doc)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(file, format, doc); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
