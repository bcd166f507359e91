// Package mcp exposes one user's health data as MCP tools over stdio.
package mcp

import (
	"context"

	"health_metrics_backend/internal/controller"
	"health_metrics_backend/internal/service"
	"health_metrics_backend/internal/util"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Services are the application services the tools call into.
type Services struct {
	MetricType   *service.MetricTypeService
	HealthMetric *service.HealthMetricService
	Goal         *service.GoalService
	Dashboard    *service.DashboardService
}

// Server acts on behalf of a single account, resolved before serving.
type Server struct {
	mcpServer *mcp.Server
	svc       Services
	owner     service.Owner
	clock     util.Clock
}

func NewServer(svc Services, owner service.Owner, clock util.Clock) *Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "health-metrics",
			Version: controller.APIVersion,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		svc:       svc,
		owner:     owner,
		clock:     clock,
	}
	s.registerTools()
	return s
}

// Serve runs the server on stdin/stdout until ctx is done or the client hangs up.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
