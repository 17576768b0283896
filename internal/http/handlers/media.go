package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bundasehat/screening-backend/internal/http/response"
	"github.com/bundasehat/screening-backend/internal/platform/apierr"
	"github.com/bundasehat/screening-backend/internal/services"
)

type MediaHandler struct {
	mediaService services.MediaService
	maxBytes     int64
}

func NewMediaHandler(mediaService services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService, maxBytes: services.MaxMediaUploadBytes}
}

// POST /api/media/upload
// multipart: file=<binary>, category=news|video
func (mh *MediaHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, mh.maxBytes+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		respondFormError(c, err)
		return
	}
	if fh.Size > mh.maxBytes {
		response.RespondAPIError(c, apierr.New(http.StatusRequestEntityTooLarge, "file_too_large", errors.New("file exceeds the upload limit")))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	defer f.Close()

	up, err := mh.mediaService.Upload(c.Request.Context(), c.PostForm("category"), fh.Filename, f)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Uploaded", up)
}

// DELETE /api/media?key=&category=
func (mh *MediaHandler) Delete(c *gin.Context) {
	key, category := c.Query("key"), c.Query("category")
	if err := mh.mediaService.Delete(c.Request.Context(), category, key); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Deleted", gin.H{"key": key})
}
