package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/timetable-api/internal/service"
	"github.com/opencampus/timetable-api/pkg/response"
)

// AvailabilityHandler manages faculty availability endpoints.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler constructs handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// List godoc
// @Summary List availability flags
// @Tags Availability
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /availability [get]
func (h *AvailabilityHandler) List(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// ListByFaculty godoc
// @Summary List availability for one faculty member
// @Tags Availability
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Router /faculty/{id}/availability [get]
func (h *AvailabilityHandler) ListByFaculty(c *gin.Context) {
	rows, err := h.service.ListByFaculty(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Set godoc
// @Summary Upsert availability flags for a faculty member
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body service.SetAvailabilityRequest true "Availability payload"
// @Success 200 {object} response.Envelope
// @Router /availability [post]
func (h *AvailabilityHandler) Set(c *gin.Context) {
	var req service.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	rows, err := h.service.Set(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Delete godoc
// @Summary Delete one availability flag
// @Tags Availability
// @Param id path string true "Availability ID"
// @Success 204
// @Router /availability/{id} [delete]
func (h *AvailabilityHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
