package user

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/litdrill/internal/chat"
	"github.com/lshigami/litdrill/internal/dto"
	"github.com/rs/zerolog/log"
)

// UpdateHandler processes one conversational event.
type UpdateHandler interface {
	Handle(ctx context.Context, in chat.Inbound) ([]chat.Outbound, error)
}

type UpdateController struct {
	handler  UpdateHandler
	commands map[string]bool
}

// NewUpdateController accepts the command names that may arrive as plain
// text. Other slash-prefixed text is passed through untouched.
func NewUpdateController(handler UpdateHandler, commands ...string) *UpdateController {
	known := make(map[string]bool, len(commands))
	for _, c := range commands {
		known[normalizeCommand(c)] = true
	}
	return &UpdateController{handler: handler, commands: known}
}

// HandleUpdate godoc
// @Summary Deliver a chat event
// @Description The chat gateway forwards every learner or operator event here and renders the returned replies.
// @Tags Conversation
// @Accept json
// @Produce json
// @Param update body dto.UpdateRequest true "Inbound event"
// @Success 200 {object} dto.UpdateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /updates [post]
func (c *UpdateController) HandleUpdate(ctx *gin.Context) {
	var req dto.UpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("HandleUpdate: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	in := chat.Inbound{
		ChatID:     req.ChatID,
		Handle:     req.Handle,
		Kind:       chat.EventKind(req.Kind),
		Command:    normalizeCommand(req.Command),
		Text:       req.Text,
		Callback:   req.Callback,
		MessageRef: req.MessageRef,
	}
	// Gateways that do not split commands send them as text.
	if in.Kind == chat.EventText && strings.HasPrefix(strings.TrimSpace(in.Text), "/") {
		if cmd := normalizeCommand(in.Text); c.commands[cmd] {
			in.Kind = chat.EventCommand
			in.Command = cmd
		}
	}

	replies, err := c.handler.Handle(ctx.Request.Context(), in)
	if err != nil {
		log.Error().Err(err).Int64("chatID", req.ChatID).Str("kind", req.Kind).Msg("HandleUpdate: event failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to process event"})
		return
	}
	if replies == nil {
		replies = []chat.Outbound{}
	}
	ctx.JSON(http.StatusOK, dto.UpdateResponse{Replies: replies})
}
