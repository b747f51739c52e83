package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/roach88/simtab/internal/table"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Query failure (unknown variable, bad alias, etc.)
	ExitCommandError = 2 // Command error (invalid paths, bad config, etc.)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// RenderTable writes a result table to w in the selected format.
// Text output is an aligned grid; JSON output is a column/row object.
func RenderTable(w io.Writer, format string, tbl *table.Table) error {
	if format == "json" {
		return renderJSON(w, tbl)
	}
	renderText(w, tbl)
	return nil
}

func renderText(w io.Writer, tbl *table.Table) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(tbl.Names())
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	for i := 0; i < tbl.Len(); i++ {
		row := make([]string, tbl.NumColumns())
		for j, col := range tbl.Columns() {
			row[j] = formatValue(col, i)
		}
		tw.Append(row)
	}
	tw.Render()
}

func renderJSON(w io.Writer, tbl *table.Table) error {
	rows := make([][]any, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		row := make([]any, tbl.NumColumns())
		for j, col := range tbl.Columns() {
			row[j] = col.Value(i)
		}
		rows[i] = row
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"columns": tbl.Names(),
		"rows":    rows,
	})
}

func formatValue(col table.Column, i int) string {
	switch col.Kind {
	case table.Float:
		return strconv.FormatFloat(col.Floats[i], 'g', -1, 64)
	case table.Int:
		return strconv.FormatInt(col.Ints[i], 10)
	case table.Bool:
		return strconv.FormatBool(col.Bools[i])
	default:
		return col.Strings[i]
	}
}
