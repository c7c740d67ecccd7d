// Package query filters regulation records with CEL expressions.
//
// An expression sees one record at a time through these variables:
//
//	sector, domain, regulasi, level           string
//	presence, detail, sanction                int
//	level_score, intensity_score, year        int (year is 0 when absent)
//	has_year                                  bool
//
// Example: presence == 1 && level_score >= 4 && domain in ["label", "iklan"]
package query

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/custodia-labs/regdash/internal/core/domain"
)

const costLimit = 10000

// Predicate is a compiled record filter. It is safe for concurrent use.
type Predicate struct {
	expr string
	prg  cel.Program
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("sector", cel.StringType),
		cel.Variable("domain", cel.StringType),
		cel.Variable("regulasi", cel.StringType),
		cel.Variable("level", cel.StringType),
		cel.Variable("presence", cel.IntType),
		cel.Variable("detail", cel.IntType),
		cel.Variable("sanction", cel.IntType),
		cel.Variable("level_score", cel.IntType),
		cel.Variable("intensity_score", cel.IntType),
		cel.Variable("year", cel.IntType),
		cel.Variable("has_year", cel.BoolType),
	)
}

// Compile parses and type-checks expr.
// Returns domain.ErrInvalidInput for an empty or malformed expression.
func Compile(expr string) (*Predicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, issues.Err())
	}
	prg, err := env.Program(ast, cel.CostLimit(costLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return &Predicate{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (p *Predicate) String() string {
	return p.expr
}

// Match evaluates the predicate against one record.
// A non-boolean result is an error.
func (p *Predicate) Match(r domain.Record) (bool, error) {
	out, _, err := p.prg.Eval(activation(r))
	if err != nil {
		return false, fmt.Errorf("evaluating %q: %w", p.expr, err)
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("%w: %q does not evaluate to a bool", domain.ErrInvalidInput, p.expr)
	}
	return ok, nil
}

// Filter returns the records matching the predicate, preserving order.
// It stops at the first evaluation error.
func (p *Predicate) Filter(records []domain.Record) ([]domain.Record, error) {
	out := make([]domain.Record, 0, len(records))
	for i := range records {
		ok, err := p.Match(records[i])
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, records[i])
		}
	}
	return out, nil
}

// Apply compiles expr and filters records with it.
// An empty expression returns records unchanged.
func Apply(expr string, records []domain.Record) ([]domain.Record, error) {
	if strings.TrimSpace(expr) == "" {
		return records, nil
	}
	p, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return p.Filter(records)
}

func activation(r domain.Record) map[string]any {
	return map[string]any{
		"sector":          r.Sector,
		"domain":          r.Domain,
		"regulasi":        r.Regulasi,
		"level":           r.Level,
		"presence":        int64(r.Presence),
		"detail":          int64(r.Detail),
		"sanction":        int64(r.Sanction),
		"level_score":     int64(r.LevelScore),
		"intensity_score": int64(r.IntensityScore),
		"year":            int64(r.Year),
		"has_year":        r.HasYear(),
	}
}
