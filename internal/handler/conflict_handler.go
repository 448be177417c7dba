package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/timetable-api/internal/service"
	appErrors "github.com/opencampus/timetable-api/pkg/errors"
	"github.com/opencampus/timetable-api/pkg/response"
)

// ConflictHandler manages detection and resolution endpoints.
type ConflictHandler struct {
	conflicts *service.ConflictService
	resolver  *service.ResolverService
}

// NewConflictHandler constructs handler.
func NewConflictHandler(conflicts *service.ConflictService, resolver *service.ResolverService) *ConflictHandler {
	return &ConflictHandler{conflicts: conflicts, resolver: resolver}
}

// Detect godoc
// @Summary Detect conflicts
// @Description Recomputes the conflict set for the scope, replacing stored records.
// @Tags Conflicts
// @Produce json
// @Param proposalId query int false "Scope to one proposal"
// @Success 200 {object} response.Envelope
// @Router /conflicts/detect [post]
func (h *ConflictHandler) Detect(c *gin.Context) {
	proposalID, err := optionalProposalID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	conflicts, err := h.conflicts.Detect(c.Request.Context(), proposalID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil, map[string]interface{}{"count": len(conflicts)})
}

// List godoc
// @Summary List stored conflicts
// @Tags Conflicts
// @Produce json
// @Param proposalId query int false "Scope to one proposal"
// @Success 200 {object} response.Envelope
// @Router /conflicts [get]
func (h *ConflictHandler) List(c *gin.Context) {
	proposalID, err := optionalProposalID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	conflicts, err := h.conflicts.List(c.Request.Context(), proposalID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}

// Resolve godoc
// @Summary Resolve conflicts for a proposal
// @Description Runs one best-effort repair pass and reports residual conflicts plus the repair log.
// @Tags Conflicts
// @Produce json
// @Param proposalId query int true "Proposal to repair"
// @Success 200 {object} response.Envelope
// @Router /conflicts/resolve [post]
func (h *ConflictHandler) Resolve(c *gin.Context) {
	raw := c.Query("proposalId")
	if raw == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "proposalId is required"))
		return
	}
	proposalID, err := strconv.Atoi(raw)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "proposalId must be an integer"))
		return
	}
	result, err := h.resolver.Resolve(c.Request.Context(), proposalID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

func optionalProposalID(c *gin.Context) (*int, error) {
	raw := c.Query("proposalId")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "proposalId must be an integer")
	}
	return &id, nil
}
