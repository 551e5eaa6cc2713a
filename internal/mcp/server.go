package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/a3tai/instruction-catalog/internal/catalog"
	"github.com/a3tai/instruction-catalog/internal/config"
	"github.com/a3tai/instruction-catalog/internal/descriptions"
	"github.com/a3tai/instruction-catalog/internal/pdf"
)

const shutdownTimeout = 5 * time.Second

// Extractor produces the grouped catalog of a manual file
type Extractor interface {
	ExtractGroups(ctx context.Context, path string, manual *catalog.Manual) ([]catalog.Group, error)
}

// Inspector reports facts about the manual file. Extractors that also
// implement it add the page count and size to catalog_info.
type Inspector interface {
	Inspect(path string, manual *catalog.Manual) (*pdf.ManualInfo, error)
}

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	manual    *catalog.Manual
	extractor Extractor
	mcpServer *server.MCPServer
	logger    logrus.FieldLogger

	mu     sync.Mutex
	groups []catalog.Group
}

// GroupSummary is one entry of the catalog_groups result
type GroupSummary struct {
	Name       string `json:"name"`
	AnchorPage int    `json:"anchorPage"`
	Records    int    `json:"records"`
}

// Info is the catalog_info result
type Info struct {
	ServerName     string                `json:"serverName"`
	Version        string                `json:"version"`
	ManualPath     string                `json:"manualPath"`
	ManualURL      string                `json:"manualUrl"`
	PhysicalOffset int                   `json:"physicalOffset"`
	Anchors        []catalog.GroupAnchor `json:"anchors"`
	Tools          []string              `json:"tools"`
	Manual         *pdf.ManualInfo       `json:"manual,omitempty"`
	ManualError    string                `json:"manualError,omitempty"`
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, extractor Extractor, logger logrus.FieldLogger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	manual, err := cfg.Manual()
	if err != nil {
		return nil, fmt.Errorf("invalid manual configuration: %w", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		config:    cfg,
		manual:    manual,
		extractor: extractor,
		mcpServer: mcpServer,
		logger:    logger,
	}
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		descriptions.CatalogExtract,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.CatalogExtract)),
		mcp.WithString("group",
			mcp.Description("Optional group name; only records of this group are returned"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleCatalogExtract)

	lookupTool := mcp.NewTool(
		descriptions.CatalogLookup,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.CatalogLookup)),
		mcp.WithString("keyword",
			mcp.Required(),
			mcp.Description("Keyword or part of it, matched case-insensitively"),
		),
	)
	s.mcpServer.AddTool(lookupTool, s.handleCatalogLookup)

	groupsTool := mcp.NewTool(
		descriptions.CatalogGroups,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.CatalogGroups)),
	)
	s.mcpServer.AddTool(groupsTool, s.handleCatalogGroups)

	infoTool := mcp.NewTool(
		descriptions.CatalogInfo,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.CatalogInfo)),
	)
	s.mcpServer.AddTool(infoTool, s.handleCatalogInfo)
}

// Groups returns the extracted catalog, running the extraction on first
// use. A failed extraction is not cached and is retried on the next call.
func (s *Server) Groups(ctx context.Context) ([]catalog.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.groups != nil {
		return s.groups, nil
	}

	start := time.Now()
	groups, err := s.extractor.ExtractGroups(ctx, s.config.ManualPath, s.manual)
	if err != nil {
		s.logger.WithError(err).WithField("type", catalog.TypeOf(err)).Error("catalog extraction failed")
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"groups":   len(groups),
		"duration": time.Since(start),
	}).Info("catalog extracted")

	s.groups = groups
	return groups, nil
}

// Handler functions
func (s *Server) handleCatalogExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups, err := s.Groups(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	name, _ := args["group"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return jsonResult(catalog.Flatten(groups))
	}

	for _, g := range groups {
		if strings.EqualFold(g.Name, name) {
			return jsonResult(g.Records)
		}
	}
	return mcp.NewToolResultError(fmt.Sprintf("unknown group: %s", name)), nil
}

func (s *Server) handleCatalogLookup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keyword, err := request.RequireString("keyword")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return mcp.NewToolResultError("keyword cannot be empty"), nil
	}

	groups, err := s.Groups(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	matches := LookupRecords(catalog.Flatten(groups), keyword)
	if len(matches) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No instructions found matching: %s", keyword)), nil
	}
	return jsonResult(matches)
}

func (s *Server) handleCatalogGroups(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups, err := s.Groups(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summaries := make([]GroupSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, GroupSummary{Name: g.Name, AnchorPage: g.AnchorPage, Records: len(g.Records)})
	}
	return jsonResult(summaries)
}

func (s *Server) handleCatalogInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info := Info{
		ServerName:     s.config.ServerName,
		Version:        s.config.Version,
		ManualPath:     s.config.ManualPath,
		ManualURL:      s.manual.BaseURL,
		PhysicalOffset: s.manual.PhysicalOffset,
		Anchors:        s.manual.Anchors,
		Tools:          descriptions.GetAllToolNames(),
	}
	if inspector, ok := s.extractor.(Inspector); ok {
		manualInfo, err := inspector.Inspect(s.config.ManualPath, s.manual)
		if err != nil {
			info.ManualError = err.Error()
		} else {
			info.Manual = manualInfo
		}
	}
	return jsonResult(info)
}

// LookupRecords returns the records whose keyword contains the query,
// ignoring case, in catalog order.
func LookupRecords(records []catalog.Record, query string) []catalog.Record {
	needle := strings.ToLower(query)
	matches := make([]catalog.Record, 0)
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Keyword), needle) {
			matches = append(matches, r)
		}
	}
	return matches
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	switch {
	case s.config.IsServerMode():
		return s.runServerMode(ctx)
	case s.config.IsStdioMode():
		return s.runStdioMode(ctx)
	default:
		return fmt.Errorf("mode %q does not serve MCP", s.config.Mode)
	}
}

// runStdioMode serves MCP over stdin/stdout until ctx is canceled or
// stdin is closed
func (s *Server) runStdioMode(ctx context.Context) error {
	s.logger.WithField("manual", s.config.ManualPath).Debug("starting MCP server in stdio mode")

	var errOut io.Writer = os.Stderr
	if l, ok := s.logger.(interface {
		WriterLevel(logrus.Level) *io.PipeWriter
	}); ok {
		pw := l.WriterLevel(logrus.ErrorLevel)
		defer pw.Close()
		errOut = pw
	}

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(log.New(errOut, "", 0))

	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over SSE on the configured address and shuts
// down gracefully when ctx is canceled
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("address", addr).Info("starting MCP server in SSE mode")
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve SSE: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sse.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down SSE server: %w", err)
		}
		s.logger.Info("MCP server stopped")
		return nil
	}
}
