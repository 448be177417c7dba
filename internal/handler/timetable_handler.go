package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/timetable-api/internal/models"
	"github.com/opencampus/timetable-api/internal/service"
	appErrors "github.com/opencampus/timetable-api/pkg/errors"
	"github.com/opencampus/timetable-api/pkg/export"
	"github.com/opencampus/timetable-api/pkg/response"
)

// TimetableHandler manages generation, retrieval, and export endpoints.
type TimetableHandler struct {
	service *service.TimetableService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{
		service: svc,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
	}
}

// Generate godoc
// @Summary Generate timetable candidates
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body service.GenerateRequest false "Optional per-section course lists"
// @Success 200 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req service.GenerateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Get godoc
// @Summary List timetable assignments
// @Tags Timetable
// @Produce json
// @Param proposalId query int false "Filter by proposal"
// @Param sectionId query string false "Filter by section"
// @Param facultyId query string false "Filter by faculty"
// @Param roomId query string false "Filter by room"
// @Param timeslotId query string false "Filter by timeslot"
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	filter, err := parseAssignmentFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	assignments, err := h.service.GetTimetable(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// ListProposals godoc
// @Summary List stored proposal versions
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/proposals [get]
func (h *TimetableHandler) ListProposals(c *gin.Context) {
	summaries, err := h.service.ListProposals(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, nil)
}

// DeleteAll godoc
// @Summary Delete all stored proposals
// @Tags Timetable
// @Success 204
// @Router /timetable [delete]
func (h *TimetableHandler) DeleteAll(c *gin.Context) {
	if err := h.service.DeleteAll(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ApplyChanges godoc
// @Summary Apply manual assignment edits
// @Description Commits the supplied edits verbatim without clash re-validation; run conflict detection afterwards.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body []models.AssignmentUpdate true "Per-assignment field edits"
// @Success 200 {object} response.Envelope
// @Router /timetable/apply-changes [post]
func (h *TimetableHandler) ApplyChanges(c *gin.Context) {
	var updates []models.AssignmentUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	applied, err := h.service.ApplyChanges(c.Request.Context(), updates)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"applied": applied}, nil)
}

// Export godoc
// @Summary Export the timetable
// @Tags Timetable
// @Produce text/csv,application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param proposalId query int false "Restrict to one proposal"
// @Success 200 {file} file
// @Router /timetable/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	var proposalID *int
	if raw := c.Query("proposalId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "proposalId must be an integer"))
			return
		}
		proposalID = &id
	}

	dataset, err := h.service.BuildExportDataset(c.Request.Context(), proposalID)
	if err != nil {
		response.Error(c, err)
		return
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		payload, err := h.csv.Render(dataset)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=timetable-%s.csv", stamp))
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := h.pdf.Render(dataset, "Timetable")
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=timetable-%s.pdf", stamp))
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

func parseAssignmentFilter(c *gin.Context) (models.AssignmentFilter, error) {
	filter := models.AssignmentFilter{
		SectionID:  c.Query("sectionId"),
		FacultyID:  c.Query("facultyId"),
		RoomID:     c.Query("roomId"),
		TimeslotID: c.Query("timeslotId"),
	}
	if raw := c.Query("proposalId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "proposalId must be an integer")
		}
		filter.ProposalID = &id
	}
	return filter, nil
}
