// Package csvsource reads the regulation table from delimited text files.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/regdash/internal/core/domain"
	"github.com/custodia-labs/regdash/internal/core/ports/driven"
	"github.com/custodia-labs/regdash/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.RecordLoader = (*Loader)(nil)

const utf8BOM = "\ufeff"

// Loader reads records from a CSV file with a header row.
// Header names are matched case-insensitively; extra columns are ignored.
type Loader struct {
	delimiter rune
}

// NewLoader creates a loader using the given field delimiter.
// A zero delimiter means comma.
func NewLoader(delimiter rune) *Loader {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Loader{delimiter: delimiter}
}

// Load opens the file at location and parses it.
func (l *Loader) Load(ctx context.Context, location string) ([]domain.Record, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", location, err)
	}
	defer f.Close()

	records, err := l.Parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	logger.Debug("csvsource: read %d records from %s", len(records), location)
	return records, nil
}

// Parse reads records from r. Structural problems fail the whole read;
// there is no row-level recovery.
func (l *Loader) Parse(ctx context.Context, r io.Reader) ([]domain.Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = l.delimiter
	cr.TrimLeadingSpace = true
	// Rows must match the header width
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", domain.ErrSchema)
		}
		return nil, wrapParseError(err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapParseError(err)
		}

		line, _ := cr.FieldPos(0)
		rec, err := parseRow(row, index, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// columnIndex maps each required column to its position in header.
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range domain.Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing column(s) %s", domain.ErrSchema, strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRow(row []string, index map[string]int, line int) (domain.Record, error) {
	field := func(col string) string {
		return strings.TrimSpace(row[index[col]])
	}

	presence, err := parseFlag(field("presence"))
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: line %d: presence: %v", domain.ErrInvalidRecord, line, err)
	}
	detail, err := parseFlag(field("detail"))
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: line %d: detail: %v", domain.ErrInvalidRecord, line, err)
	}

	return domain.Record{
		Sector:   field("sector"),
		Domain:   field("domain"),
		Regulasi: field("regulasi"),
		Level:    field("level"),
		Presence: presence,
		Detail:   detail,
	}, nil
}

// parseFlag accepts 0 or 1, also written as 0.0 or 1.0.
func parseFlag(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) {
			return 0, fmt.Errorf("%q is not an integer", s)
		}
		n = int(f)
	}
	if n != 0 && n != 1 {
		return 0, fmt.Errorf("%d is not 0 or 1", n)
	}
	return n, nil
}

func wrapParseError(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return fmt.Errorf("%w: line %d: %v", domain.ErrSchema, perr.Line, perr.Err)
	}
	return fmt.Errorf("read csv: %w", err)
}
