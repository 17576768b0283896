package services

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/bundasehat/screening-backend/internal/data/repos"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

type VideoInput struct {
	Name        string `json:"name"`
	LinkURL     string `json:"link_url"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	IsActive    bool   `json:"is_active"`
}

type VideoService interface {
	List(ctx context.Context, onlyActive bool) ([]*types.VideoInformation, error)
	Get(ctx context.Context, id uuid.UUID) (*types.VideoInformation, error)
	Create(ctx context.Context, in VideoInput) (*types.VideoInformation, error)
	Update(ctx context.Context, id uuid.UUID, in VideoInput) (*types.VideoInformation, error)
	Delete(ctx context.Context, id uuid.UUID) (*types.VideoInformation, error)
}

type videoService struct {
	log  *logger.Logger
	repo repos.VideoRepo
}

func NewVideoService(log *logger.Logger, repo repos.VideoRepo) VideoService {
	return &videoService{log: log.With("service", "VideoService"), repo: repo}
}

func (vs *videoService) List(ctx context.Context, onlyActive bool) ([]*types.VideoInformation, error) {
	out, err := vs.repo.List(dbctx.Context{Ctx: ctx}, onlyActive)
	if err != nil {
		return nil, mapRepoErr(err, "video_not_found")
	}
	return out, nil
}

func (vs *videoService) Get(ctx context.Context, id uuid.UUID) (*types.VideoInformation, error) {
	v, err := vs.repo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, mapRepoErr(err, "video_not_found")
	}
	return v, nil
}

func (vs *videoService) Create(ctx context.Context, in VideoInput) (*types.VideoInformation, error) {
	in, err := sanitizeVideo(in)
	if err != nil {
		return nil, err
	}
	v := &types.VideoInformation{
		Name:        in.Name,
		LinkURL:     in.LinkURL,
		Thumbnail:   in.Thumbnail,
		Description: in.Description,
		Duration:    in.Duration,
		IsActive:    in.IsActive,
	}
	if _, err := vs.repo.Create(dbctx.Context{Ctx: ctx}, v); err != nil {
		return nil, mapRepoErr(err, "video_not_found")
	}
	return v, nil
}

func (vs *videoService) Update(ctx context.Context, id uuid.UUID, in VideoInput) (*types.VideoInformation, error) {
	in, err := sanitizeVideo(in)
	if err != nil {
		return nil, err
	}
	if err := vs.repo.UpdateFields(dbctx.Context{Ctx: ctx}, id, map[string]any{
		"name":        in.Name,
		"link_url":    in.LinkURL,
		"thumbnail":   in.Thumbnail,
		"description": in.Description,
		"duration":    in.Duration,
		"is_active":   in.IsActive,
	}); err != nil {
		return nil, mapRepoErr(err, "video_not_found")
	}
	return vs.Get(ctx, id)
}

func (vs *videoService) Delete(ctx context.Context, id uuid.UUID) (*types.VideoInformation, error) {
	v, err := vs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := vs.repo.Delete(dbctx.Context{Ctx: ctx}, id); err != nil {
		return nil, mapRepoErr(err, "video_not_found")
	}
	return v, nil
}

func sanitizeVideo(in VideoInput) (VideoInput, error) {
	in.Name = truncateRunes(in.Name, 200)
	if in.Name == "" {
		return in, invalid("name_required", "name is required")
	}
	in.LinkURL = truncateRunes(in.LinkURL, 2048)
	if in.LinkURL == "" {
		return in, invalid("link_required", "link_url is required")
	}
	if u, err := url.Parse(in.LinkURL); err != nil || u.Scheme == "" || u.Host == "" {
		return in, invalid("invalid_link", "link_url must be an absolute URL")
	}
	in.Thumbnail = truncateRunes(in.Thumbnail, 2048)
	in.Description = truncateRunes(in.Description, 20000)
	in.Duration = truncateRunes(in.Duration, 32)
	return in, nil
}
