package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check the health status of the lamp service and MQTT publisher connectivity"),
		),
		s.handleGetHealth,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_timers",
			mcp.WithDescription("List every active lamp timer with its expiry"),
		),
		s.handleListTimers,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_timer",
			mcp.WithDescription("Get the active timer of one lamp"),
			mcp.WithNumber("number",
				mcp.Required(),
				mcp.Description("Lamp number (1-4)"),
			),
		),
		s.handleGetTimer,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("start_timer",
			mcp.WithDescription("Switch a lamp on for a number of minutes, or add minutes to its running timer"),
			mcp.WithNumber("number",
				mcp.Required(),
				mcp.Description("Lamp number (1-4)"),
			),
			mcp.WithNumber("add_minutes",
				mcp.Required(),
				mcp.Description("Minutes to run or to add (1 to 525600)"),
			),
		),
		s.handleStartTimer,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("stop_timer",
			mcp.WithDescription("Cancel a lamp's timer and switch the lamp off"),
			mcp.WithNumber("number",
				mcp.Required(),
				mcp.Description("Lamp number (1-4)"),
			),
		),
		s.handleStopTimer,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("reset_timers",
			mcp.WithDescription("Remove every timer and switch all lamps off"),
		),
		s.handleResetTimers,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("switch_lamp",
			mcp.WithDescription("Switch a lamp on or off without touching its timer. Number 0 addresses every lamp."),
			mcp.WithNumber("number",
				mcp.Required(),
				mcp.Description("Lamp number (0 for all, 1-4)"),
			),
			mcp.WithBoolean("status",
				mcp.Required(),
				mcp.Description("true for on, false for off"),
			),
		),
		s.handleSwitchLamp,
	)
}
