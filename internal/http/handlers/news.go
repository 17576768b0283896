package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bundasehat/screening-backend/internal/http/response"
	"github.com/bundasehat/screening-backend/internal/services"
)

type NewsHandler struct {
	newsService services.NewsService
}

func NewNewsHandler(newsService services.NewsService) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

// GET /api/news
// Admins see drafts too.
func (nh *NewsHandler) List(c *gin.Context) {
	items, err := nh.newsService.List(c.Request.Context(), !isAdmin(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "News", items)
}

// GET /api/news/:id
func (nh *NewsHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	n, err := nh.newsService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "News", n)
}

// POST /api/news
// body: { "title", "thumbnail", "description", "is_active" }
func (nh *NewsHandler) Create(c *gin.Context) {
	var req services.NewsInput
	if !bindJSON(c, &req) {
		return
	}
	n, err := nh.newsService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "News created", n)
}

// PUT /api/news/:id
func (nh *NewsHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.NewsInput
	if !bindJSON(c, &req) {
		return
	}
	n, err := nh.newsService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "News updated", n)
}

// DELETE /api/news/:id
func (nh *NewsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	n, err := nh.newsService.Delete(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "News deleted", n)
}
