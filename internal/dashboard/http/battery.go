package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/batterydash/internal/dashboard/service"
	"github.com/aussiebroadwan/batterydash/pkg/httpx"
)

type BatteryHandler struct {
	BatteryService *service.BatteryService
}

// HandleStatus godoc
//
//	@Summary		Battery status
//	@Description	Current status of a battery, passed through from the monitoring provider unchanged.
//	@Tags			Battery
//	@Produce		json
//	@Security		BearerAuth
//	@Param			deviceId	path		string					true	"Battery device id"
//	@Success		200			{object}	object					"provider status document"
//	@Failure		401			"missing or invalid token"
//	@Failure		429			{object}	httpx.MessageResponse	"rate limited"
//	@Failure		500			{object}	httpx.MessageResponse	"upstream failure"
//	@Router			/api/Battery/{deviceId}/status [get].
func (h *BatteryHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	body, err := h.BatteryService.GetStatus(r.Context(), r.PathValue("deviceId"))
	if err != nil {
		httpx.WriteMessage(w, http.StatusInternalServerError, msgStatusFailed)
		return
	}
	httpx.WriteRawJSON(w, http.StatusOK, body)
}

// HandleTelemetry godoc
//
//	@Summary		Battery telemetry
//	@Description	BatteryPowerW and GridPowerW series for a battery. Other series are dropped.
//	@Tags			Battery
//	@Produce		json
//	@Security		BearerAuth
//	@Param			deviceId		path		string						true	"Battery device id"
//	@Param			offsetMinutes	query		int							false	"Window offset in minutes"	default(0)
//	@Success		200				{object}	domain.TelemetryResponse	"series"
//	@Failure		400				{object}	httpx.MessageResponse		"offsetMinutes is not an integer"
//	@Failure		401				"missing or invalid token"
//	@Failure		429				{object}	httpx.MessageResponse		"rate limited"
//	@Failure		500				{object}	httpx.MessageResponse		"upstream failure"
//	@Router			/api/Battery/{deviceId}/telemetry [get].
func (h *BatteryHandler) HandleTelemetry(w http.ResponseWriter, r *http.Request) {
	offset := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("offsetMinutes")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteMessage(w, http.StatusBadRequest, msgInvalidOffset)
			return
		}
		offset = n
	}

	resp, err := h.BatteryService.GetTelemetry(r.Context(), r.PathValue("deviceId"), offset)
	if err != nil {
		httpx.WriteMessage(w, http.StatusInternalServerError, msgTelemetryFailed)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
