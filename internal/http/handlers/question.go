package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bundasehat/screening-backend/internal/http/response"
	"github.com/bundasehat/screening-backend/internal/services"
)

type QuestionHandler struct {
	questionService services.QuestionService
}

func NewQuestionHandler(questionService services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// GET /api/question
func (qh *QuestionHandler) List(c *gin.Context) {
	qs, err := qh.questionService.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Questions", qs)
}

// GET /api/question/:id
func (qh *QuestionHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	q, err := qh.questionService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Question", q)
}

// POST /api/question
// body: { "question": "...", "options": [{ "value": "..." }] }
func (qh *QuestionHandler) Create(c *gin.Context) {
	var req services.QuestionInput
	if !bindJSON(c, &req) {
		return
	}
	q, err := qh.questionService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Question created", q)
}

// PUT /api/question/:id
// The option list replaces the stored one.
func (qh *QuestionHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.QuestionInput
	if !bindJSON(c, &req) {
		return
	}
	q, err := qh.questionService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Question updated", q)
}

// DELETE /api/question/:id
func (qh *QuestionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	q, err := qh.questionService.Delete(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Question deleted", q)
}
