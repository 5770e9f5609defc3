package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatter writes command output as aligned text tables or as JSON.
type formatter struct {
	w        io.Writer
	jsonMode bool
}

func newFormatter(w io.Writer, jsonMode bool) *formatter {
	return &formatter{w: w, jsonMode: jsonMode}
}

// render prints data as indented JSON in JSON mode, and calls text otherwise.
func (f *formatter) render(data any, text func() error) error {
	if f.jsonMode {
		enc := json.NewEncoder(f.w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	return text()
}

// table prints rows under headers with columns padded to their display
// width, so Hangul cells line up with ASCII ones.
func (f *formatter) table(headers []string, rows [][]string) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	separators := make([]string, len(headers))
	for i := range headers {
		separators[i] = strings.Repeat("-", widths[i])
	}

	if err := f.line(widths, headers); err != nil {
		return err
	}
	if err := f.line(widths, separators); err != nil {
		return err
	}
	for _, row := range rows {
		if err := f.line(widths, row); err != nil {
			return err
		}
	}
	return nil
}

func (f *formatter) line(widths []int, cells []string) error {
	padded := make([]string, len(widths))
	for i := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if i == len(widths)-1 {
			padded[i] = cell
			continue
		}
		padded[i] = runewidth.FillRight(cell, widths[i])
	}
	_, err := fmt.Fprintln(f.w, strings.TrimRight(strings.Join(padded, "  "), " "))
	return err
}

// heading prints a blank-line separated section title.
func (f *formatter) heading(title string) error {
	_, err := fmt.Fprintf(f.w, "\n%s\n", title)
	return err
}
