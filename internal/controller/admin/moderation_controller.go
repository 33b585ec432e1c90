package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/litdrill/internal/dto"
	"github.com/lshigami/litdrill/internal/model"
	"github.com/lshigami/litdrill/internal/repository"
	"github.com/lshigami/litdrill/internal/service"
	"github.com/rs/zerolog/log"
)

type ModerationController struct {
	moderation service.ModerationService
	learners   service.LearnerService
	location   *time.Location
	now        func() time.Time
}

func NewModerationController(moderation service.ModerationService, learners service.LearnerService, location *time.Location) *ModerationController {
	if location == nil {
		location = time.UTC
	}
	return &ModerationController{moderation: moderation, learners: learners, location: location, now: time.Now}
}

// GradeAssignment godoc
// @Summary (Admin) Re-grade a recorded answer
// @Description Sets a graded assignment to correct or incorrect. Repeating the same grade is a no-op.
// @Tags Admin - Moderation
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param grade body dto.GradeRequest true "Target grade"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Assignment still pending"
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/assignments/{id}/grade [put]
func (c *ModerationController) GradeAssignment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req dto.GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin GradeAssignment: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	assignment, err := c.moderation.SetGrade(ctx.Request.Context(), id, *req.Correct)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Assignment not found"})
		return
	case errors.Is(err, service.ErrNotGraded):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		return
	case err != nil:
		log.Error().Err(err).Uint("assignmentID", id).Msg("Admin GradeAssignment: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to re-grade assignment"})
		return
	}
	ctx.JSON(http.StatusOK, service.ToAssignmentResponse(*assignment))
}

// RetireQuestion godoc
// @Summary (Admin) Retire a question
// @Description Hides the question from future selection. Existing assignments stay readable.
// @Tags Admin - Moderation
// @Produce json
// @Param id path int true "Question ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/questions/{id}/retire [post]
func (c *ModerationController) RetireQuestion(ctx *gin.Context) {
	c.setQuestionActive(ctx, false)
}

// RestoreQuestion godoc
// @Summary (Admin) Restore a retired question
// @Tags Admin - Moderation
// @Produce json
// @Param id path int true "Question ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/questions/{id}/restore [post]
func (c *ModerationController) RestoreQuestion(ctx *gin.Context) {
	c.setQuestionActive(ctx, true)
}

func (c *ModerationController) setQuestionActive(ctx *gin.Context, active bool) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var err error
	if active {
		err = c.moderation.RestoreQuestion(ctx.Request.Context(), id)
	} else {
		err = c.moderation.RetireQuestion(ctx.Request.Context(), id)
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Question not found"})
	case err != nil:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update question"})
	default:
		ctx.Status(http.StatusNoContent)
	}
}

// GetDailyTally godoc
// @Summary (Admin) Same-day results of a learner
// @Tags Admin - Moderation
// @Produce json
// @Param chat_id path int true "Learner chat ID"
// @Param day query string false "Day as YYYY-MM-DD, defaults to today"
// @Success 200 {object} dto.TallyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/learners/{chat_id}/today [get]
func (c *ModerationController) GetDailyTally(ctx *gin.Context) {
	chatID, err := strconv.ParseInt(ctx.Param("chat_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid chat ID format"})
		return
	}
	day := ctx.Query("day")
	if day == "" {
		day = model.DayKey(c.now().In(c.location))
	} else if _, err := time.Parse(model.DateLayout, day); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid day format", Details: []string{err.Error()}})
		return
	}

	resp, err := c.learners.TallyByChat(ctx.Request.Context(), chatID, day)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Learner not found"})
	case err != nil:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load tally"})
	default:
		ctx.JSON(http.StatusOK, resp)
	}
}

func parseID(ctx *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid ID format"})
		return 0, false
	}
	return uint(id), true
}
