package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/regdash/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for regdash resources.
	uriScheme = "regdash://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the whole table.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "records",
		Name:        "records",
		Description: "The loaded regulation table with derived scores",
		MIMEType:    "application/json",
	}, s.handleRecordsResource)

	// Template for the rows of one sector.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "records/{sector}",
		Name:        "sector-records",
		Description: "Regulation rows of a single sector",
		MIMEType:    "application/json",
	}, s.handleSectorRecordsResource)
}

// handleRecordsResource returns every enriched record.
func (s *Server) handleRecordsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	records, err := s.ports.Dataset.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return jsonResource(req.Params.URI, records)
}

// handleSectorRecordsResource returns the records of the sector named in the URI.
func (s *Server) handleSectorRecordsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sector := extractSector(req.Params.URI)
	if sector == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	records, err := s.ports.Dataset.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	filtered := domain.Filter{Sectors: []string{sector}}.Apply(records)
	if len(filtered) == 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, filtered)
}

func jsonResource(uri string, records []domain.Record) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(nonNil(records), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling records: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSector extracts the sector from a URI like regdash://records/{sector}.
// The sector may be percent-encoded.
func extractSector(uri string) string {
	const prefix = uriScheme + "records/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	raw := strings.TrimPrefix(uri, prefix)
	if raw == "" || strings.Contains(raw, "/") {
		return ""
	}
	sector, err := url.PathUnescape(raw)
	if err != nil {
		return ""
	}
	return sector
}
