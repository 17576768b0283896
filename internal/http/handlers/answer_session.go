package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bundasehat/screening-backend/internal/http/response"
	"github.com/bundasehat/screening-backend/internal/platform/apierr"
	"github.com/bundasehat/screening-backend/internal/platform/ctxutil"
	"github.com/bundasehat/screening-backend/internal/services"
)

type AnswerSessionHandler struct {
	sessionService services.AnswerSessionService
}

func NewAnswerSessionHandler(sessionService services.AnswerSessionService) *AnswerSessionHandler {
	return &AnswerSessionHandler{sessionService: sessionService}
}

// POST /api/answer-session
// body: { "user_id"?, "patient_id"?, "started_at"?, "answers": [{ "question_id", "selected_option_id" }] }
// The response carries the evaluated session.
func (ah *AnswerSessionHandler) Create(c *gin.Context) {
	var req services.AnswerSessionInput
	if !bindJSON(c, &req) {
		return
	}
	s, err := ah.sessionService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Answer session evaluated", s)
}

// GET /api/answer-session?userId=
// Without userId the caller's own sessions are listed.
func (ah *AnswerSessionHandler) List(c *gin.Context) {
	userID, err := listUserID(c)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	sessions, err := ah.sessionService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Answer sessions", sessions)
}

// GET /api/answer-session/:id
func (ah *AnswerSessionHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s, err := ah.sessionService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Answer session", s)
}

// POST /api/answer-session/:id/evaluate
func (ah *AnswerSessionHandler) Evaluate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s, err := ah.sessionService.Reevaluate(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Answer session evaluated", s)
}

func listUserID(c *gin.Context) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query("userId"))
	if raw == "" {
		raw = strings.TrimSpace(c.Query("user_id"))
	}
	if raw == "" {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil {
			return uuid.Nil, apierr.Unauthorized("authentication required")
		}
		return rd.UserID, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierr.BadRequest("invalid_user_id", "userId must be a UUID")
	}
	return id, nil
}
