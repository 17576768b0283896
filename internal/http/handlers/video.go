package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bundasehat/screening-backend/internal/http/response"
	"github.com/bundasehat/screening-backend/internal/services"
)

type VideoHandler struct {
	videoService services.VideoService
}

func NewVideoHandler(videoService services.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// GET /api/video-information
// Admins see inactive videos too.
func (vh *VideoHandler) List(c *gin.Context) {
	videos, err := vh.videoService.List(c.Request.Context(), !isAdmin(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Videos", videos)
}

// GET /api/video-information/:id
func (vh *VideoHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	v, err := vh.videoService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Video", v)
}

// POST /api/video-information
// body: { "name", "link_url", "thumbnail", "description", "duration", "is_active" }
func (vh *VideoHandler) Create(c *gin.Context) {
	var req services.VideoInput
	if !bindJSON(c, &req) {
		return
	}
	v, err := vh.videoService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Video created", v)
}

// PUT /api/video-information/:id
func (vh *VideoHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.VideoInput
	if !bindJSON(c, &req) {
		return
	}
	v, err := vh.videoService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Video updated", v)
}

// DELETE /api/video-information/:id
func (vh *VideoHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	v, err := vh.videoService.Delete(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Video deleted", v)
}
