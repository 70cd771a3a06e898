package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/lampbridge/pkg/api/types"
	"github.com/urmzd/lampbridge/pkg/lamp"
	"github.com/urmzd/lampbridge/pkg/lamp/schema"
)

// Lamps is the timer engine surface the HTTP gateway drives.
type Lamps interface {
	List(ctx context.Context) ([]lamp.Timer, error)
	Get(ctx context.Context, number int) (lamp.Timer, error)
	StartOrExtend(ctx context.Context, number, addMinutes int) (lamp.Timer, bool, error)
	Stop(ctx context.Context, number int) (lamp.ID, error)
	Reset(ctx context.Context) (int, error)
	Switch(ctx context.Context, number int, on bool) error
}

// TimersHandler handles lamp timer endpoints
type TimersHandler struct {
	lamps     Lamps
	validator *schema.Validator
}

// NewTimersHandler creates a new timers handler
func NewTimersHandler(lamps Lamps, validator *schema.Validator) *TimersHandler {
	return &TimersHandler{lamps: lamps, validator: validator}
}

// List handles GET /data
// @Summary      List active timers
// @Description  Returns every active lamp timer in store order
// @Tags         timers
// @Produce      json
// @Success      200  {object}  types.Response{data=[]types.TimerResponse}
// @Failure      500  {object}  types.Response  "Record store error"
// @Router       /data [get]
func (h *TimersHandler) List(c *gin.Context) {
	timers, err := h.lamps.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	now := time.Now()
	result := make([]types.TimerResponse, 0, len(timers))
	for _, t := range timers {
		result = append(result, timerResponse(t, now))
	}

	success(c, http.StatusOK, fmt.Sprintf("%d active timers", len(result)), result)
}

// Get handles GET /data/:number
// @Summary      Get a lamp's timer
// @Description  Returns the active timer of one lamp
// @Tags         timers
// @Produce      json
// @Param        number  path      int  true  "Lamp number (1-4)"
// @Success      200     {object}  types.Response{data=types.TimerResponse}
// @Failure      400     {object}  types.Response  "Invalid lamp number"
// @Failure      404     {object}  types.Response  "No active timer"
// @Failure      500     {object}  types.Response  "Record store error"
// @Router       /data/{number} [get]
func (h *TimersHandler) Get(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		failed(c, http.StatusBadRequest, "Lamp number must be an integer")
		return
	}

	t, err := h.lamps.Get(c.Request.Context(), number)
	if err != nil {
		fail(c, err)
		return
	}

	success(c, http.StatusOK, fmt.Sprintf("Timer for lamp %d", number), timerResponse(t, time.Now()))
}

// Start handles POST /waktu
// @Summary      Start or extend a timer
// @Description  Starts a timer for the lamp, or adds time to the running one, and switches the lamp on
// @Tags         timers
// @Accept       json
// @Produce      json
// @Param        request  body      types.TimerRequest  true  "Lamp number and minutes to add"
// @Success      201      {object}  types.Response{data=types.StartTimerResponse}
// @Failure      400      {object}  types.Response  "Invalid request"
// @Failure      500      {object}  types.Response  "Record store error"
// @Router       /waktu [post]
func (h *TimersHandler) Start(c *gin.Context) {
	var req types.TimerRequest
	if !bindValidated(c, h.validator, schema.Timer, &req) {
		return
	}

	t, created, err := h.lamps.StartOrExtend(c.Request.Context(), req.Number, req.AddTime)
	if err != nil {
		fail(c, err)
		return
	}

	message := fmt.Sprintf("Timer for lamp %d extended by %d minutes", req.Number, req.AddTime)
	if created {
		message = fmt.Sprintf("Timer for lamp %d started for %d minutes", req.Number, req.AddTime)
	}

	success(c, http.StatusCreated, message, types.StartTimerResponse{
		Timer:   timerResponse(t, time.Now()),
		Created: created,
	})
}

// Stop handles POST /stop
// @Summary      Stop a timer
// @Description  Removes the lamp's timer and switches the lamp off
// @Tags         timers
// @Accept       json
// @Produce      json
// @Param        request  body      types.StopRequest  true  "Lamp number"
// @Success      200      {object}  types.Response{data=types.StopTimerResponse}
// @Failure      400      {object}  types.Response  "Invalid request"
// @Failure      404      {object}  types.Response  "No active timer"
// @Failure      500      {object}  types.Response  "Record store error"
// @Router       /stop [post]
func (h *TimersHandler) Stop(c *gin.Context) {
	var req types.StopRequest
	if !bindValidated(c, h.validator, schema.Stop, &req) {
		return
	}

	id, err := h.lamps.Stop(c.Request.Context(), req.Number)
	if err != nil {
		fail(c, err)
		return
	}

	success(c, http.StatusOK, fmt.Sprintf("Timer for lamp %d stopped", req.Number), types.StopTimerResponse{
		ID: id.String(),
	})
}

// Reset handles DELETE /reset
// @Summary      Reset all timers
// @Description  Removes every timer and broadcasts a power-off to all lamps
// @Tags         timers
// @Produce      json
// @Success      200  {object}  types.Response{data=types.ResetResponse}
// @Failure      500  {object}  types.Response  "Record store error"
// @Router       /reset [delete]
func (h *TimersHandler) Reset(c *gin.Context) {
	removed, err := h.lamps.Reset(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	success(c, http.StatusOK, fmt.Sprintf("%d timers removed", removed), types.ResetResponse{
		Removed: removed,
	})
}

// Switch handles POST /lampu
// @Summary      Switch a lamp
// @Description  Publishes a power command without touching timers; number 0 addresses every lamp
// @Tags         lamps
// @Accept       json
// @Produce      json
// @Param        request  body      types.SwitchRequest  true  "Lamp number and power state"
// @Success      200      {object}  types.Response
// @Failure      400      {object}  types.Response  "Invalid request"
// @Failure      500      {object}  types.Response  "Publish failed"
// @Router       /lampu [post]
func (h *TimersHandler) Switch(c *gin.Context) {
	var req types.SwitchRequest
	if !bindValidated(c, h.validator, schema.Switch, &req) {
		return
	}

	if err := h.lamps.Switch(c.Request.Context(), req.Number, req.Status); err != nil {
		fail(c, err)
		return
	}

	state := "off"
	if req.Status {
		state = "on"
	}
	success(c, http.StatusOK, fmt.Sprintf("Lamp %d switched %s", req.Number, state), nil)
}
