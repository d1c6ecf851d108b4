package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	domainavail "github.com/alanyang/shift-router/internal/domain/availability"
	"github.com/alanyang/shift-router/internal/domain/pass"
	availsvc "github.com/alanyang/shift-router/internal/service/availability"
	controllersvc "github.com/alanyang/shift-router/internal/service/controller"
)

// RegisterTools registers all MCP tools on the server.
// [SRP] Tool registration only.
func RegisterTools(s *mcpserver.MCPServer, controlSvc *controllersvc.Service, availSvc *availsvc.Service) {
	s.AddTool(mcpmcp.NewTool("get_status",
		mcpmcp.WithDescription("Returns the run state, current time, whether the operating window is open, whether a pass is in flight, per-operator eligibility and the most recent pass outcomes."),
	), getStatusHandler(controlSvc))

	s.AddTool(mcpmcp.NewTool("set_running",
		mcpmcp.WithDescription("Start or stop periodic distribution. Stopping is a manual override that persists until started again."),
		mcpmcp.WithBoolean("running", mcpmcp.Required(), mcpmcp.Description("true to start, false to stop")),
	), setRunningHandler(controlSvc))

	s.AddTool(mcpmcp.NewTool("run_once",
		mcpmcp.WithDescription("Run one distribution pass now. Rejected if a pass is already in flight."),
	), runOnceHandler(controlSvc))

	s.AddTool(mcpmcp.NewTool("update_availability",
		mcpmcp.WithDescription("Set an operator's schedule for a day: whether they work, their shift hours and whether they are currently available."),
		mcpmcp.WithString("operator_email", mcpmcp.Required(), mcpmcp.Description("Operator email as used by the task source")),
		mcpmcp.WithString("date", mcpmcp.Description("Day in YYYY-MM-DD. Defaults to today.")),
		mcpmcp.WithBoolean("working_today", mcpmcp.Required(), mcpmcp.Description("Whether the operator is scheduled on that day")),
		mcpmcp.WithNumber("start_hour", mcpmcp.Required(), mcpmcp.Description("Shift start hour, 0-23")),
		mcpmcp.WithNumber("end_hour", mcpmcp.Required(), mcpmcp.Description("Shift end hour, 0-23, after start_hour")),
		mcpmcp.WithBoolean("available", mcpmcp.Required(), mcpmcp.Description("Whether the operator can take tasks right now")),
	), updateAvailabilityHandler(availSvc))
}

func getStatusHandler(controlSvc *controllersvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, _ mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		st, err := controlSvc.Status(ctx)
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		return jsonResult(st)
	}
}

func setRunningHandler(controlSvc *controllersvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		if _, ok := req.GetArguments()["running"]; !ok {
			return mcpmcp.NewToolResultText("error: running is required"), nil
		}
		st, err := controlSvc.SetRunning(ctx, mcpmcp.ParseBoolean(req, "running", false))
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		return jsonResult(st)
	}
}

func runOnceHandler(controlSvc *controllersvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, _ mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		out, err := controlSvc.RunOnce(context.WithoutCancel(ctx), pass.TriggerManual)
		if errors.Is(err, controllersvc.ErrConcurrencyRejected) {
			return mcpmcp.NewToolResultText("error: a distribution pass is already in flight"), nil
		}
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		return jsonResult(out)
	}
}

func updateAvailabilityHandler(availSvc *availsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		args := req.GetArguments()
		for _, key := range []string{"operator_email", "working_today", "start_hour", "end_hour", "available"} {
			if _, ok := args[key]; !ok {
				return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s is required", key)), nil
			}
		}

		startHour, err := hourArg(args, "start_hour")
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		endHour, err := hourArg(args, "end_hour")
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}

		row, err := availSvc.Update(ctx, availsvc.Update{
			OperatorEmail: mcpmcp.ParseString(req, "operator_email", ""),
			Date:          mcpmcp.ParseString(req, "date", ""),
			Scheduled:     mcpmcp.ParseBoolean(req, "working_today", false),
			StartHour:     startHour,
			EndHour:       endHour,
			Available:     mcpmcp.ParseBoolean(req, "available", false),
		})
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		return jsonResult(row)
	}
}

// hourArg reads a JSON number that must be a whole hour. Fractions are rejected, not truncated.
func hourArg(args map[string]any, key string) (int, error) {
	switch v := args[key].(type) {
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %s must be a whole hour, got %v", domainavail.ErrInvalidInput, key, v)
		}
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number", domainavail.ErrInvalidInput, key)
	}
}

func jsonResult(v any) (*mcpmcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling tool result: %w", err)
	}
	return mcpmcp.NewToolResultText(string(b)), nil
}
