package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/lampbridge/pkg/api/types"
)

// Routes lists the lamp routes served by the router.
var Routes = []types.Route{
	{Method: http.MethodGet, Path: "/health", Description: "Service and publisher health"},
	{Method: http.MethodGet, Path: "/data", Description: "List active timers"},
	{Method: http.MethodGet, Path: "/data/:number", Description: "Get one lamp's timer"},
	{Method: http.MethodPost, Path: "/lampu", Description: "Switch a lamp on or off"},
	{Method: http.MethodPost, Path: "/waktu", Description: "Start or extend a lamp timer"},
	{Method: http.MethodPost, Path: "/stop", Description: "Stop a lamp timer"},
	{Method: http.MethodDelete, Path: "/reset", Description: "Remove all timers and switch every lamp off"},
	{Method: http.MethodGet, Path: "/docs", Description: "API documentation"},
}

// Index handles GET /
// @Summary      Route index
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.Response{data=[]types.Route}
// @Router       / [get]
func Index(c *gin.Context) {
	success(c, http.StatusOK, "Lamp timer API", Routes)
}
