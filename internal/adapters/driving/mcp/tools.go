package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/regdash/internal/core/domain"
	"github.com/custodia-labs/regdash/internal/query"
)

// defaultRecordLimit caps list_records when no limit is given.
const defaultRecordLimit = 100

// SummaryInput is the input schema for the dashboard_summary tool.
type SummaryInput struct {
	Sectors []string `json:"sectors,omitempty" jsonschema:"only include these sectors (omit for all)"`
	Domains []string `json:"domains,omitempty" jsonschema:"only include these domains (omit for all)"`
}

// SummaryOutput is the output schema for the dashboard_summary tool.
type SummaryOutput struct {
	Records int                    `json:"records"`
	Cells   []domain.IntensityCell `json:"cells"`
	Grid    domain.IntensityGrid   `json:"grid"`
}

// GapsInput is the input schema for the exclusive_gaps tool.
type GapsInput struct {
	Sectors []string `json:"sectors,omitempty" jsonschema:"only include these sectors (omit for all)"`
	Domains []string `json:"domains,omitempty" jsonschema:"only include these domains (omit for all)"`
	From    string   `json:"from,omitempty" jsonschema:"sector whose exclusive domains are reported (default from settings)"`
	Against string   `json:"against,omitempty" jsonschema:"sector compared against (default from settings)"`
}

// GapsOutput is the output schema for the exclusive_gaps tool.
type GapsOutput struct {
	Sector           string          `json:"sector"`
	ComparedWith     string          `json:"compared_with"`
	ExclusiveDomains []string        `json:"exclusive_domains"`
	Rows             []domain.Record `json:"rows"`
}

// TrendInput is the input schema for the yearly_trend tool.
type TrendInput struct {
	Sectors []string `json:"sectors,omitempty" jsonschema:"only include these sectors (omit for all)"`
	Domains []string `json:"domains,omitempty" jsonschema:"only include these domains (omit for all)"`
	Horizon int      `json:"horizon,omitempty" jsonschema:"number of projected points per sector (default from settings)"`
	Step    int      `json:"step,omitempty" jsonschema:"years between projected points (default from settings)"`
}

// TrendOutput is the output schema for the yearly_trend tool.
type TrendOutput struct {
	Trend     []domain.TrendPoint     `json:"trend"`
	Forecast  domain.ForecastOptions  `json:"forecast_options"`
	Forecasts []domain.SectorForecast `json:"forecasts"`
}

// RecordsInput is the input schema for the list_records tool.
type RecordsInput struct {
	Sectors []string `json:"sectors,omitempty" jsonschema:"only include these sectors (omit for all)"`
	Domains []string `json:"domains,omitempty" jsonschema:"only include these domains (omit for all)"`
	Where   string   `json:"where,omitempty" jsonschema:"CEL expression over sector, domain, regulasi, level, presence, detail, sanction, level_score, intensity_score, year and has_year"`
	Limit   int      `json:"limit,omitempty" jsonschema:"maximum number of records to return (default 100)"`
}

// RecordsOutput is the output schema for the list_records tool.
type RecordsOutput struct {
	Records []domain.Record `json:"records"`
	Count   int             `json:"count"`
	Matched int             `json:"matched"`
}

// ReloadInput is the input schema for the reload_dataset tool.
type ReloadInput struct{}

// ReloadOutput is the output schema for the reload_dataset tool.
type ReloadOutput struct {
	Snapshot domain.SnapshotInfo `json:"snapshot"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "dashboard_summary",
		Description: "Mean regulatory intensity per domain and sector, with the domain × sector grid",
	}, s.handleSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "exclusive_gaps",
		Description: "Domains regulated for one sector but not the other, with the regulations involved",
	}, s.handleGaps)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "yearly_trend",
		Description: "Regulations enacted per year and sector, with an illustrative linear projection",
	}, s.handleTrend)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_records",
		Description: "Scored regulation records, optionally narrowed by a CEL expression",
	}, s.handleRecords)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reload_dataset",
		Description: "Read the source table again",
	}, s.handleReload)
}

// handleSummary handles the dashboard_summary tool invocation.
func (s *Server) handleSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummaryInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	dash, err := s.ports.Dataset.Dashboard(ctx, filterOf(input.Sectors, input.Domains))
	if err != nil {
		return nil, SummaryOutput{}, err
	}

	return nil, SummaryOutput{
		Records: len(dash.Records),
		Cells:   nonNil(dash.Summary),
		Grid: domain.IntensityGrid{
			Domains: nonNil(dash.Grid.Domains),
			Sectors: nonNil(dash.Grid.Sectors),
			Values:  nonNil(dash.Grid.Values),
		},
	}, nil
}

// handleGaps handles the exclusive_gaps tool invocation.
func (s *Server) handleGaps(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GapsInput,
) (*mcp.CallToolResult, GapsOutput, error) {
	opts := domain.DashboardOptions{PrimarySector: input.From, SecondarySector: input.Against}
	dash, err := s.ports.Dataset.Analyze(ctx, filterOf(input.Sectors, input.Domains), opts)
	if err != nil {
		return nil, GapsOutput{}, err
	}

	return nil, GapsOutput{
		Sector:           dash.Options.PrimarySector,
		ComparedWith:     dash.Options.SecondarySector,
		ExclusiveDomains: nonNil(dash.ExclusiveDomains),
		Rows:             nonNil(dash.GapRows),
	}, nil
}

// handleTrend handles the yearly_trend tool invocation.
func (s *Server) handleTrend(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TrendInput,
) (*mcp.CallToolResult, TrendOutput, error) {
	if input.Horizon < 0 || input.Step < 0 {
		return nil, TrendOutput{}, fmt.Errorf("%w: horizon and step must not be negative", domain.ErrInvalidInput)
	}

	opts := domain.DashboardOptions{
		Forecast: domain.ForecastOptions{Horizon: input.Horizon, Step: input.Step},
	}
	dash, err := s.ports.Dataset.Analyze(ctx, filterOf(input.Sectors, input.Domains), opts)
	if err != nil {
		return nil, TrendOutput{}, err
	}

	forecasts := nonNil(dash.Forecasts)
	for i := range forecasts {
		forecasts[i].Points = nonNil(forecasts[i].Points)
	}
	return nil, TrendOutput{
		Trend:     nonNil(dash.Trend),
		Forecast:  dash.Options.Forecast,
		Forecasts: forecasts,
	}, nil
}

// handleRecords handles the list_records tool invocation.
func (s *Server) handleRecords(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RecordsInput,
) (*mcp.CallToolResult, RecordsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultRecordLimit
	}

	records, err := s.ports.Dataset.Records(ctx)
	if err != nil {
		return nil, RecordsOutput{}, err
	}

	records = filterOf(input.Sectors, input.Domains).Apply(records)
	records, err = query.Apply(input.Where, records)
	if err != nil {
		return nil, RecordsOutput{}, err
	}

	matched := len(records)
	if len(records) > limit {
		records = records[:limit]
	}

	return nil, RecordsOutput{
		Records: nonNil(records),
		Count:   len(records),
		Matched: matched,
	}, nil
}

// handleReload handles the reload_dataset tool invocation.
func (s *Server) handleReload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ReloadInput,
) (*mcp.CallToolResult, ReloadOutput, error) {
	info, err := s.ports.Dataset.Reload(ctx)
	if err != nil {
		return nil, ReloadOutput{}, err
	}
	return nil, ReloadOutput{Snapshot: *info}, nil
}

// filterOf maps optional tool arguments to a filter.
// An omitted list selects every value; an empty list selects none.
func filterOf(sectors, domains []string) domain.Filter {
	return domain.Filter{Sectors: sectors, Domains: domains}
}

// nonNil keeps empty lists serialised as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
