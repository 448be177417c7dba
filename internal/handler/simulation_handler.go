package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/timetable-api/internal/service"
	appErrors "github.com/opencampus/timetable-api/pkg/errors"
	"github.com/opencampus/timetable-api/pkg/response"
)

// SimulationHandler exposes the what-if impact analyses.
type SimulationHandler struct {
	service *service.SimulationService
}

// NewSimulationHandler constructs handler.
func NewSimulationHandler(svc *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{service: svc}
}

// FacultyUnavailable godoc
// @Summary Simulate a faculty member being away
// @Tags Simulation
// @Produce json
// @Param id path string true "Faculty ID"
// @Param day query string true "Weekday"
// @Param proposalId query int true "Proposal to analyze"
// @Success 200 {object} response.Envelope
// @Router /simulation/faculty-unavailable/{id} [post]
func (h *SimulationHandler) FacultyUnavailable(c *gin.Context) {
	proposalID, ok := requiredProposalID(c)
	if !ok {
		return
	}
	record, err := h.service.SimulateFacultyUnavailable(c.Request.Context(), proposalID, c.Param("id"), c.Query("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// RoomShortage godoc
// @Summary Simulate a room dropping out
// @Tags Simulation
// @Produce json
// @Param id path string true "Room ID"
// @Param day query string true "Weekday"
// @Param proposalId query int true "Proposal to analyze"
// @Success 200 {object} response.Envelope
// @Router /simulation/room-shortage/{id} [post]
func (h *SimulationHandler) RoomShortage(c *gin.Context) {
	proposalID, ok := requiredProposalID(c)
	if !ok {
		return
	}
	record, err := h.service.SimulateRoomShortage(c.Request.Context(), proposalID, c.Param("id"), c.Query("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// History godoc
// @Summary List past simulation runs
// @Tags Simulation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /simulation/history [get]
func (h *SimulationHandler) History(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.History(), nil)
}

// ClearHistory godoc
// @Summary Clear simulation history
// @Tags Simulation
// @Success 204
// @Router /simulation/history [delete]
func (h *SimulationHandler) ClearHistory(c *gin.Context) {
	h.service.ClearHistory()
	response.NoContent(c)
}

// Compare godoc
// @Summary Compare two simulation runs
// @Tags Simulation
// @Produce json
// @Param first query string true "First simulation ID"
// @Param second query string true "Second simulation ID"
// @Success 200 {object} response.Envelope
// @Router /simulation/compare [get]
func (h *SimulationHandler) Compare(c *gin.Context) {
	first, second := c.Query("first"), c.Query("second")
	if first == "" || second == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "first and second simulation ids are required"))
		return
	}
	comparison, err := h.service.Compare(first, second)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, comparison, nil)
}
