package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/bundasehat/screening-backend/internal/platform/apierr"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/gcp"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

// MaxMediaUploadBytes bounds news thumbnails and video files; enforced by the HTTP layer.
const MaxMediaUploadBytes = 200 << 20

type UploadedMedia struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

type MediaService interface {
	Upload(ctx context.Context, category, filename string, r io.Reader) (*UploadedMedia, error)
	Delete(ctx context.Context, category, key string) error
}

type mediaService struct {
	log    *logger.Logger
	bucket gcp.BucketService
	newID  func() string
}

func NewMediaService(log *logger.Logger, bucket gcp.BucketService) MediaService {
	return &mediaService{log: log.With("service", "MediaService"), bucket: bucket, newID: uuid.NewString}
}

func (ms *mediaService) Upload(ctx context.Context, category, filename string, r io.Reader) (*UploadedMedia, error) {
	cat, err := ms.category(category)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(path.Ext(strings.TrimSpace(filename)))
	key := fmt.Sprintf("%s/%s%s", cat, ms.newID(), ext)
	if gcp.ContentTypeForKey(key) == "" {
		return nil, invalid("unsupported_media_type", "file type %q is not allowed", ext)
	}
	if err := ms.bucket.UploadFile(dbctx.Context{Ctx: ctx}, cat, key, r); err != nil {
		return nil, apierr.Internal(err)
	}
	ms.log.Info("Media uploaded", "category", cat, "key", key)
	return &UploadedMedia{Key: key, URL: ms.bucket.GetPublicURL(cat, key), Category: string(cat)}, nil
}

func (ms *mediaService) Delete(ctx context.Context, category, key string) error {
	cat, err := ms.category(category)
	if err != nil {
		return err
	}
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if !strings.HasPrefix(key, string(cat)+"/") || strings.Contains(key, "..") {
		return invalid("invalid_key", "key must live under %s/", cat)
	}
	if err := ms.bucket.DeleteFile(dbctx.Context{Ctx: ctx}, cat, key); err != nil {
		if errors.Is(err, gcp.ErrObjectNotFound) {
			return apierr.NotFound("media_not_found", err)
		}
		return apierr.Internal(err)
	}
	return nil
}

// category accepts news and video; avatars go through the user endpoints.
func (ms *mediaService) category(raw string) (gcp.BucketCategory, error) {
	cat, ok := gcp.ParseBucketCategory(raw)
	if !ok || cat == gcp.BucketCategoryAvatar {
		return "", invalid("invalid_category", "category must be %q or %q", gcp.BucketCategoryNews, gcp.BucketCategoryVideo)
	}
	if ms.bucket == nil || !ms.bucket.HasCategory(cat) {
		return "", invalid("category_unavailable", "no bucket configured for %q", cat)
	}
	return cat, nil
}
