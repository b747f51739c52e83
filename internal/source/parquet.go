package source

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/roach88/simtab/internal/table"
)

// Parquet is a source backed by a parquet file of simulation output.
//
// The file is re-checked before every fetch: an md5 checksum detects
// in-place rewrites (simulation runs overwrite their output file), and
// the column layout is reloaded when the checksum changes. A missing or
// unreadable file invalidates the source — ValidNames goes empty and
// Fetch fails — rather than serving stale data.
type Parquet struct {
	name     string
	path     string
	checksum string
	valid    bool
	names    []string
}

// NewParquet creates a parquet source and performs the initial load.
// A missing file is not an error at construction time; the source just
// starts out invalid, matching the warn-and-continue registry contract.
func NewParquet(name, path string) (*Parquet, error) {
	p := &Parquet{name: name, path: path}
	if err := p.Load(); err != nil {
		return nil, err
	}
	return p, nil
}

// Name returns the source name.
func (p *Parquet) Name() string {
	return p.name
}

// Load refreshes the source from disk. If the file checksum is
// unchanged since the previous load, nothing is reread.
func (p *Parquet) Load() error {
	changed, err := p.checksumChanged()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Warn("source file does not exist; clearing data",
				"source", p.name, "path", p.path)
			p.valid = false
			p.names = nil
			p.checksum = ""
			return nil
		}
		return fmt.Errorf("source %q: checksum %s: %w", p.name, p.path, err)
	}
	if !changed && p.valid {
		slog.Debug("source file unchanged; layout not reloaded",
			"source", p.name, "path", p.path)
		return nil
	}

	slog.Info("loading source layout", "source", p.name, "path", p.path)
	names, err := p.readSchema()
	if err != nil {
		return fmt.Errorf("source %q: read schema %s: %w", p.name, p.path, err)
	}
	p.names = names
	p.valid = true
	return nil
}

// ValidNames returns the leaf column names of the parquet schema, or
// nil when the source is invalid.
func (p *Parquet) ValidNames() []string {
	return p.names
}

// Fetch reads the requested columns from the file.
// The layout is refreshed first so a rewritten file is picked up.
func (p *Parquet) Fetch(ctx context.Context, names []string) (*table.Table, error) {
	if err := p.Load(); err != nil {
		return nil, err
	}
	if !p.valid {
		return nil, fmt.Errorf("source %q: file %s is not readable", p.name, p.path)
	}
	known := make(map[string]struct{}, len(p.names))
	for _, n := range p.names {
		known[n] = struct{}{}
	}
	for _, n := range names {
		if _, ok := known[n]; !ok {
			return nil, fmt.Errorf("source %q: unknown column %q", p.name, n)
		}
	}

	rows, err := p.readRows(ctx)
	if err != nil {
		return nil, err
	}
	out, err := table.New()
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		col, err := buildColumn(n, rows)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", p.name, err)
		}
		if err := out.Append(col); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// checksumChanged hashes the file and compares against the previous
// load. The checksum is updated as a side effect.
func (p *Parquet) checksumChanged() (bool, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return false, err
	}
	sum := fmt.Sprintf("%x", h.Sum(nil))
	if sum == p.checksum {
		return false, nil
	}
	p.checksum = sum
	return true, nil
}

// readSchema opens the file and lists its leaf column names.
func (p *Parquet) readSchema() ([]string, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, err
	}

	fields := pf.Schema().Fields()
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, field.Name())
	}
	return names, nil
}

// readRows reads the whole file as name-indexed rows.
func (p *Parquet) readRows(ctx context.Context) ([]map[string]any, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("source %q: open %s: %w", p.name, p.path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("source %q: stat %s: %w", p.name, p.path, err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("source %q: open parquet %s: %w", p.name, p.path, err)
	}

	reader := parquet.NewReader(pf)
	defer func() { _ = reader.Close() }()

	var rows []map[string]any
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make(map[string]any)
		if err := reader.Read(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("source %q: read row: %w", p.name, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// buildColumn assembles one typed column from name-indexed rows.
// The column kind is taken from the first non-nil value; numeric widths
// are widened to the table model's float64/int64. Null or absent values
// are rejected rather than zero-filled: a zero is indistinguishable
// from real data downstream.
func buildColumn(name string, rows []map[string]any) (table.Column, error) {
	kind := table.Float
	for _, row := range rows {
		v, ok := row[name]
		if !ok || v == nil {
			continue
		}
		switch v.(type) {
		case float32, float64:
			kind = table.Float
		case int, int32, int64:
			kind = table.Int
		case bool:
			kind = table.Bool
		case string, []byte:
			kind = table.String
		default:
			return table.Column{}, fmt.Errorf("column %q: unsupported value type %T", name, v)
		}
		break
	}

	switch kind {
	case table.Float:
		vals := make([]float64, len(rows))
		for i, row := range rows {
			switch v := row[name].(type) {
			case float32:
				vals[i] = float64(v)
			case float64:
				vals[i] = v
			case int32:
				vals[i] = float64(v)
			case int64:
				vals[i] = float64(v)
			default:
				return table.Column{}, fmt.Errorf("column %q: null or non-numeric value at row %d", name, i)
			}
		}
		return table.NewFloat(name, vals), nil
	case table.Int:
		vals := make([]int64, len(rows))
		for i, row := range rows {
			switch v := row[name].(type) {
			case int:
				vals[i] = int64(v)
			case int32:
				vals[i] = int64(v)
			case int64:
				vals[i] = v
			default:
				return table.Column{}, fmt.Errorf("column %q: null or non-integer value at row %d", name, i)
			}
		}
		return table.NewInt(name, vals), nil
	case table.Bool:
		vals := make([]bool, len(rows))
		for i, row := range rows {
			v, ok := row[name].(bool)
			if !ok {
				return table.Column{}, fmt.Errorf("column %q: null or non-boolean value at row %d", name, i)
			}
			vals[i] = v
		}
		return table.NewBool(name, vals), nil
	default:
		vals := make([]string, len(rows))
		for i, row := range rows {
			switch v := row[name].(type) {
			case string:
				vals[i] = v
			case []byte:
				vals[i] = string(v)
			default:
				return table.Column{}, fmt.Errorf("column %q: null or non-text value at row %d", name, i)
			}
		}
		return table.NewString(name, vals), nil
	}
}
