// ABOUTME: MCP tool implementations for codepac
// ABOUTME: Snippet retrieval/use and package search over the local store
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/seanblair/codepac/internal/db"
	"github.com/seanblair/codepac/internal/store"
)

// GetSnippetInput defines the input for the get_snippet tool.
type GetSnippetInput struct {
	Name string `json:"name" jsonschema:"The exact snippet name" jsonschema_extras:"required=true"`
}

// SnippetData is the snippet payload returned by snippet tools.
type SnippetData struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language"`
	Category    string `json:"category,omitempty"`
	Content     string `json:"content"`
	UsageCount  int64  `json:"usage_count"`
}

// GetSnippetOutput defines the output for get_snippet and use_snippet.
type GetSnippetOutput struct {
	Found   bool         `json:"found" jsonschema:"Whether a snippet with that name exists"`
	Snippet *SnippetData `json:"snippet,omitempty"`
}

// SearchPackagesInput defines the input for the search_packages tool.
type SearchPackagesInput struct {
	Field   string `json:"field,omitempty" jsonschema:"Field to match: name, description, or category (default name)"`
	Pattern string `json:"pattern" jsonschema:"Substring to match" jsonschema_extras:"required=true"`
}

// PackageData is the package payload returned by package tools.
type PackageData struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author"`
	Language    string `json:"language"`
	Category    string `json:"category,omitempty"`
	UsageCount  int64  `json:"usage_count"`
}

// SearchPackagesOutput defines the output for search_packages and list_packages.
type SearchPackagesOutput struct {
	Packages []PackageData `json:"packages"`
	Count    int           `json:"count"`
}

// ListPackagesInput defines the input for the list_packages tool.
type ListPackagesInput struct{}

// registerTools adds all MCP tools to the server.
func (s *Server) registerTools() {
	getSnippetTool := &mcp.Tool{
		Name:        "get_snippet",
		Description: "Look up a stored code snippet by its exact name.",
	}
	mcp.AddTool(s.mcpServer, getSnippetTool, s.handleGetSnippet)

	useSnippetTool := &mcp.Tool{
		Name:        "use_snippet",
		Description: "Look up a snippet by name and record the use in its usage counter. Prefer this over get_snippet when the snippet is about to be inserted into code.",
	}
	mcp.AddTool(s.mcpServer, useSnippetTool, s.handleUseSnippet)

	searchPackagesTool := &mcp.Tool{
		Name:        "search_packages",
		Description: "Search local packages by a substring of their name, description, or category.",
	}
	mcp.AddTool(s.mcpServer, searchPackagesTool, s.handleSearchPackages)

	listPackagesTool := &mcp.Tool{
		Name:        "list_packages",
		Description: "List all local packages, most used first.",
	}
	mcp.AddTool(s.mcpServer, listPackagesTool, s.handleListPackages)
}

func (s *Server) openStore() (*store.Store, error) {
	st, err := store.Open(s.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}

func snippetData(snip *db.Snippet) *SnippetData {
	d := &SnippetData{
		Name:       snip.Name,
		Language:   snip.Language,
		Content:    snip.Content,
		UsageCount: snip.UsageCount,
	}
	if snip.Description != nil {
		d.Description = *snip.Description
	}
	if snip.Category != nil {
		d.Category = *snip.Category
	}
	return d
}

func packageData(pkg db.Package) PackageData {
	d := PackageData{
		Name:       pkg.Name,
		Version:    pkg.Version,
		Author:     pkg.Author,
		Language:   pkg.Language,
		UsageCount: pkg.UsageCount,
	}
	if pkg.Description != nil {
		d.Description = *pkg.Description
	}
	if pkg.Category != nil {
		d.Category = *pkg.Category
	}
	return d
}

// handleGetSnippet implements the get_snippet tool.
func (s *Server) handleGetSnippet(ctx context.Context, req *mcp.CallToolRequest, input GetSnippetInput) (*mcp.CallToolResult, GetSnippetOutput, error) {
	st, err := s.openStore()
	if err != nil {
		return nil, GetSnippetOutput{}, err
	}
	defer func() { _ = st.Close() }()

	snip, err := st.GetSnippet(input.Name)
	if err != nil {
		return nil, GetSnippetOutput{}, err
	}
	return snippetResult(snip, input.Name)
}

// handleUseSnippet implements the use_snippet tool.
func (s *Server) handleUseSnippet(ctx context.Context, req *mcp.CallToolRequest, input GetSnippetInput) (*mcp.CallToolResult, GetSnippetOutput, error) {
	st, err := s.openStore()
	if err != nil {
		return nil, GetSnippetOutput{}, err
	}
	defer func() { _ = st.Close() }()

	snip, err := st.UseSnippet(input.Name)
	if err != nil {
		return nil, GetSnippetOutput{}, err
	}
	return snippetResult(snip, input.Name)
}

func snippetResult(snip *db.Snippet, name string) (*mcp.CallToolResult, GetSnippetOutput, error) {
	if snip == nil {
		result := &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("No snippet named %q", name)},
			},
		}
		return result, GetSnippetOutput{Found: false}, nil
	}

	output := GetSnippetOutput{Found: true, Snippet: snippetData(snip)}
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: snip.Content},
		},
	}
	return result, output, nil
}

// handleSearchPackages implements the search_packages tool.
func (s *Server) handleSearchPackages(ctx context.Context, req *mcp.CallToolRequest, input SearchPackagesInput) (*mcp.CallToolResult, SearchPackagesOutput, error) {
	st, err := s.openStore()
	if err != nil {
		return nil, SearchPackagesOutput{}, err
	}
	defer func() { _ = st.Close() }()

	field := input.Field
	if field == "" {
		field = "name"
	}

	packages, err := st.SearchPackages(field, input.Pattern)
	if err != nil {
		return nil, SearchPackagesOutput{}, err
	}
	return packagesResult(packages)
}

// handleListPackages implements the list_packages tool.
func (s *Server) handleListPackages(ctx context.Context, req *mcp.CallToolRequest, input ListPackagesInput) (*mcp.CallToolResult, SearchPackagesOutput, error) {
	st, err := s.openStore()
	if err != nil {
		return nil, SearchPackagesOutput{}, err
	}
	defer func() { _ = st.Close() }()

	packages, err := st.ListPackages()
	if err != nil {
		return nil, SearchPackagesOutput{}, err
	}
	return packagesResult(packages)
}

func packagesResult(packages []db.Package) (*mcp.CallToolResult, SearchPackagesOutput, error) {
	output := SearchPackagesOutput{Count: len(packages)}
	text := ""
	for _, pkg := range packages {
		data := packageData(pkg)
		output.Packages = append(output.Packages, data)
		text += fmt.Sprintf("%s v%s (%s), used %d times\n", data.Name, data.Version, data.Language, data.UsageCount)
	}
	if text == "" {
		text = "No packages matched"
	}

	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
	return result, output, nil
}
