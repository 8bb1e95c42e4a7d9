// ABOUTME: MCP resource implementations for codepac
// ABOUTME: Queryable context about popular packages and stored languages
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerResources adds all MCP resources to the server.
func (s *Server) registerResources() {
	popularResource := &mcp.Resource{
		URI:         "codepac://popular-packages",
		Name:        "Popular Packages",
		Description: "The ten most used local packages with full metadata",
		MIMEType:    "application/json",
	}
	s.mcpServer.AddResource(popularResource, s.handlePopularPackages)

	languagesResource := &mcp.Resource{
		URI:         "codepac://languages",
		Name:        "Languages",
		Description: "Languages present in the store with snippet and package counts",
		MIMEType:    "application/json",
	}
	s.mcpServer.AddResource(languagesResource, s.handleLanguages)
}

// handlePopularPackages implements the popular-packages resource.
func (s *Server) handlePopularPackages(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	st, err := s.openStore()
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()

	packages, err := st.ListPackages()
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	if len(packages) > 10 {
		packages = packages[:10]
	}

	var data []PackageData
	for _, pkg := range packages {
		data = append(data, packageData(pkg))
	}

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, err
	}

	result := &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      "codepac://popular-packages",
				MIMEType: "application/json",
				Text:     string(payload),
			},
		},
	}
	return result, nil
}

// languageCounts summarizes how much of the store uses each language.
type languageCounts struct {
	Snippets map[string]int `json:"snippets"`
	Packages map[string]int `json:"packages"`
}

// handleLanguages implements the languages resource.
func (s *Server) handleLanguages(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	st, err := s.openStore()
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()

	counts := languageCounts{
		Snippets: make(map[string]int),
		Packages: make(map[string]int),
	}

	snippets, err := st.ListSnippets(0)
	if err != nil {
		return nil, fmt.Errorf("failed to list snippets: %w", err)
	}
	for _, snip := range snippets {
		counts.Snippets[snip.Language]++
	}

	packages, err := st.ListPackages()
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	for _, pkg := range packages {
		counts.Packages[pkg.Language]++
	}

	payload, err := json.MarshalIndent(counts, "", "  ")
	if err != nil {
		return nil, err
	}

	result := &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      "codepac://languages",
				MIMEType: "application/json",
				Text:     string(payload),
			},
		},
	}
	return result, nil
}
