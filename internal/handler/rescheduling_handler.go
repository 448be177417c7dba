package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/timetable-api/internal/service"
	appErrors "github.com/opencampus/timetable-api/pkg/errors"
	"github.com/opencampus/timetable-api/pkg/response"
)

// ReschedulingHandler exposes the read-only disruption analyses.
type ReschedulingHandler struct {
	service *service.DisruptionService
}

// NewReschedulingHandler constructs handler.
func NewReschedulingHandler(svc *service.DisruptionService) *ReschedulingHandler {
	return &ReschedulingHandler{service: svc}
}

// FacultyLeave godoc
// @Summary Options for a faculty member away for a day
// @Tags Rescheduling
// @Produce json
// @Param id path string true "Faculty ID"
// @Param day query string true "Weekday, e.g. Monday"
// @Param proposalId query int true "Proposal to analyze"
// @Success 200 {object} response.Envelope
// @Router /rescheduling/faculty-leave/{id} [get]
func (h *ReschedulingHandler) FacultyLeave(c *gin.Context) {
	proposalID, ok := requiredProposalID(c)
	if !ok {
		return
	}
	results, err := h.service.FacultyLeave(c.Request.Context(), proposalID, c.Param("id"), c.Query("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// RoomOutage godoc
// @Summary Options for a room out of service for a day
// @Tags Rescheduling
// @Produce json
// @Param id path string true "Room ID"
// @Param day query string true "Weekday, e.g. Monday"
// @Param proposalId query int true "Proposal to analyze"
// @Success 200 {object} response.Envelope
// @Router /rescheduling/room-outage/{id} [get]
func (h *ReschedulingHandler) RoomOutage(c *gin.Context) {
	proposalID, ok := requiredProposalID(c)
	if !ok {
		return
	}
	results, err := h.service.RoomOutage(c.Request.Context(), proposalID, c.Param("id"), c.Query("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// Holiday godoc
// @Summary Make-up options for a cancelled day
// @Tags Rescheduling
// @Produce json
// @Param day query string true "Weekday, e.g. Friday"
// @Param proposalId query int true "Proposal to analyze"
// @Success 200 {object} response.Envelope
// @Router /rescheduling/holiday [get]
func (h *ReschedulingHandler) Holiday(c *gin.Context) {
	proposalID, ok := requiredProposalID(c)
	if !ok {
		return
	}
	results, err := h.service.Holiday(c.Request.Context(), proposalID, c.Query("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

func requiredProposalID(c *gin.Context) (int, bool) {
	raw := c.Query("proposalId")
	if raw == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "proposalId is required"))
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "proposalId must be an integer"))
		return 0, false
	}
	return id, true
}
