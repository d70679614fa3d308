// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Flightpath route search for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/flightpath/internal/flightservice"
	"github.com/starford/flightpath/internal/routing"
)

// ItineraryFormatURI is the resource URI of the itinerary contract.
const ItineraryFormatURI = "flightpath://itinerary-format"

// Server wraps the MCP server with Flightpath tools.
type Server struct {
	mcp *server.MCPServer
	svc *flightservice.Service
}

// New creates a new MCP server with all Flightpath tools registered.
func New(svc *flightservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Flightpath",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("find_routes",
		mcp.WithDescription("Find up to k fastest itineraries between two airports on one date. "+
			"Read the itinerary contract via get_itinerary_format or the "+ItineraryFormatURI+" resource."),
		mcp.WithString("from", mcp.Required(), mcp.Description("Origin airport code, e.g. DEL")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Destination airport code, e.g. BLR")),
		mcp.WithString("date", mcp.Required(), mcp.Description("Travel date, YYYY-MM-DD")),
		mcp.WithNumber("k", mcp.Description("Maximum number of itineraries (default 5)")),
	), s.findRoutes)

	s.mcp.AddTool(mcp.NewTool("find_cheapest",
		mcp.WithDescription("Find the lowest-price itinerary between two airports, ignoring dates and connection times."),
		mcp.WithString("from", mcp.Required(), mcp.Description("Origin airport code")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Destination airport code")),
	), s.findCheapest)

	s.mcp.AddTool(mcp.NewTool("list_airports",
		mcp.WithDescription("List every known airport as code, city and name."),
	), s.listAirports)

	s.mcp.AddTool(mcp.NewTool("search_flights",
		mcp.WithDescription("List direct flights between two airports, or every flight on a date when only date is given."),
		mcp.WithString("from", mcp.Description("Origin airport code")),
		mcp.WithString("to", mcp.Description("Destination airport code")),
		mcp.WithString("date", mcp.Description("Travel date, YYYY-MM-DD")),
	), s.searchFlights)

	s.mcp.AddTool(mcp.NewTool("get_itinerary_format",
		mcp.WithDescription("Returns the itinerary JSON contract used by the route tools."),
	), s.getItineraryFormat)

	s.mcp.AddResource(
		mcp.NewResource(ItineraryFormatURI, "Itinerary Format",
			mcp.WithResourceDescription("Shape and semantics of itineraries returned by route tools."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readItineraryFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func (s *Server) findRoutes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := req.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	k := req.GetInt("k", 0)

	routes, err := s.svc.FindRoutes(ctx, from, to, date, k)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"routes": routes, "count": len(routes)}), nil
}

func (s *Server) findCheapest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := req.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	it, err := s.svc.FindCheapest(ctx, from, to)
	switch {
	case errors.Is(err, routing.ErrNoRoute):
		return mcp.NewToolResultError(fmt.Sprintf("no route found from %s to %s", from, to)), nil
	case errors.Is(err, routing.ErrNegativeCycle):
		return mcp.NewToolResultError("negative price cycle: cheapest route is undefined"), nil
	case err != nil:
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(it), nil
}

func (s *Server) listAirports(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	airports, err := s.svc.ListAirports(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(airports) == 0 {
		return mcp.NewToolResultText("no airports"), nil
	}
	lines := make([]string, len(airports))
	for i, a := range airports {
		lines[i] = fmt.Sprintf("%s\t%s\t%s", a.Code, a.City, a.Name)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) searchFlights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from := req.GetString("from", "")
	to := req.GetString("to", "")
	date := req.GetString("date", "")

	var (
		out any
		err error
	)
	switch {
	case from != "" && to != "":
		out, err = s.svc.DirectFlights(ctx, from, to)
	case date != "":
		out, err = s.svc.FlightsOn(ctx, date)
	default:
		return mcp.NewToolResultError("either from and to, or date, is required"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(out), nil
}

func (s *Server) getItineraryFormat(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ItineraryFormatContract), nil
}

func (s *Server) readItineraryFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ItineraryFormatURI,
			MIMEType: "text/markdown",
			Text:     ItineraryFormatContract,
		},
	}, nil
}
