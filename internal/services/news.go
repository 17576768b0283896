package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/bundasehat/screening-backend/internal/data/repos"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

type NewsInput struct {
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

type NewsService interface {
	List(ctx context.Context, onlyActive bool) ([]*types.News, error)
	Get(ctx context.Context, id uuid.UUID) (*types.News, error)
	Create(ctx context.Context, in NewsInput) (*types.News, error)
	Update(ctx context.Context, id uuid.UUID, in NewsInput) (*types.News, error)
	Delete(ctx context.Context, id uuid.UUID) (*types.News, error)
}

type newsService struct {
	log  *logger.Logger
	repo repos.NewsRepo
}

func NewNewsService(log *logger.Logger, repo repos.NewsRepo) NewsService {
	return &newsService{log: log.With("service", "NewsService"), repo: repo}
}

func (ns *newsService) List(ctx context.Context, onlyActive bool) ([]*types.News, error) {
	out, err := ns.repo.List(dbctx.Context{Ctx: ctx}, onlyActive)
	if err != nil {
		return nil, mapRepoErr(err, "news_not_found")
	}
	return out, nil
}

func (ns *newsService) Get(ctx context.Context, id uuid.UUID) (*types.News, error) {
	n, err := ns.repo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, mapRepoErr(err, "news_not_found")
	}
	return n, nil
}

func (ns *newsService) Create(ctx context.Context, in NewsInput) (*types.News, error) {
	in, err := sanitizeNews(in)
	if err != nil {
		return nil, err
	}
	n := &types.News{Title: in.Title, Thumbnail: in.Thumbnail, Description: in.Description, IsActive: in.IsActive}
	if _, err := ns.repo.Create(dbctx.Context{Ctx: ctx}, n); err != nil {
		return nil, mapRepoErr(err, "news_not_found")
	}
	return n, nil
}

func (ns *newsService) Update(ctx context.Context, id uuid.UUID, in NewsInput) (*types.News, error) {
	in, err := sanitizeNews(in)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := ns.repo.UpdateFields(dbc, id, map[string]any{
		"title":       in.Title,
		"thumbnail":   in.Thumbnail,
		"description": in.Description,
		"is_active":   in.IsActive,
	}); err != nil {
		return nil, mapRepoErr(err, "news_not_found")
	}
	return ns.Get(ctx, id)
}

func (ns *newsService) Delete(ctx context.Context, id uuid.UUID) (*types.News, error) {
	n, err := ns.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ns.repo.Delete(dbctx.Context{Ctx: ctx}, id); err != nil {
		return nil, mapRepoErr(err, "news_not_found")
	}
	return n, nil
}

func sanitizeNews(in NewsInput) (NewsInput, error) {
	in.Title = truncateRunes(in.Title, types.MaxNewsTitleLength)
	if in.Title == "" {
		return in, invalid("title_required", "title is required")
	}
	in.Thumbnail = truncateRunes(in.Thumbnail, 2048)
	if in.Thumbnail == "" {
		return in, invalid("thumbnail_required", "thumbnail is required")
	}
	in.Description = truncateRunes(in.Description, 20000)
	return in, nil
}
