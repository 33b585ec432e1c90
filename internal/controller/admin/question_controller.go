package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/litdrill/internal/dto"
	"github.com/lshigami/litdrill/internal/repository"
	"github.com/lshigami/litdrill/internal/service"
	"github.com/rs/zerolog/log"
)

type QuestionController struct {
	questions service.QuestionService
}

func NewQuestionController(questions service.QuestionService) *QuestionController {
	return &QuestionController{questions: questions}
}

// ImportQuestions godoc
// @Summary (Admin) Bulk insert questions
// @Description Validates every row and inserts them in one transaction.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param questions body dto.QuestionImportDTO true "Questions to insert"
// @Success 201 {object} dto.ImportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/questions [post]
func (c *QuestionController) ImportQuestions(ctx *gin.Context) {
	var req dto.QuestionImportDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin ImportQuestions: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	created, err := c.questions.Import(ctx.Request.Context(), req)
	if errors.Is(err, service.ErrInvalidImport) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid questions", Details: []string{err.Error()}})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to import questions"})
		return
	}
	ctx.JSON(http.StatusCreated, dto.ImportResponse{Created: created})
}

// ListQuestions godoc
// @Summary (Admin) List questions
// @Tags Admin - Questions
// @Produce json
// @Param line query int false "Filter by line"
// @Param active query bool false "Filter by active flag"
// @Success 200 {array} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	var query dto.QuestionListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid query", Details: []string{err.Error()}})
		return
	}
	questions, err := c.questions.ListQuestions(ctx.Request.Context(), query)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list questions"})
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// GetQuestion godoc
// @Summary (Admin) Get a question
// @Tags Admin - Questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	question, err := c.questions.GetQuestion(ctx.Request.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Question not found"})
	case err != nil:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load question"})
	default:
		ctx.JSON(http.StatusOK, question)
	}
}
