package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bundasehat/screening-backend/internal/http/response"
	"github.com/bundasehat/screening-backend/internal/platform/apierr"
	"github.com/bundasehat/screening-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/user
func (uh *UserHandler) List(c *gin.Context) {
	users, err := uh.userService.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Users", users)
}

// GET /api/user/:id
func (uh *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := uh.userService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "User", u)
}

// POST /api/user
// body: { "name", "email", "password", "role": "admin" | "user" }
func (uh *UserHandler) Create(c *gin.Context) {
	var req services.UserInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := uh.userService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "User created", u)
}

// PUT /api/user/:id
// Omitted fields keep their stored value.
func (uh *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.UserUpdate
	if !bindJSON(c, &req) {
		return
	}
	u, err := uh.userService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "User updated", u)
}

// DELETE /api/user/:id
func (uh *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := uh.userService.Delete(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "User deleted", u)
}

// PUT /api/user/:id/avatar
// multipart: file=<image>
func (uh *UserHandler) UploadAvatar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxAvatarUploadBytes+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		respondFormError(c, err)
		return
	}
	if fh.Size > services.MaxAvatarUploadBytes {
		response.RespondAPIError(c, apierr.New(http.StatusRequestEntityTooLarge, "file_too_large", errors.New("avatar exceeds 5 MiB")))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	u, err := uh.userService.SetAvatar(c.Request.Context(), id, raw)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Avatar updated", u)
}

func respondFormError(c *gin.Context, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		response.RespondAPIError(c, apierr.New(http.StatusRequestEntityTooLarge, "file_too_large", err))
		return
	}
	response.RespondError(c, http.StatusBadRequest, "file_required", err)
}
