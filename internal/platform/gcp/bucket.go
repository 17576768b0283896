package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/envutil"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

type BucketCategory string

const (
	BucketCategoryAvatar BucketCategory = "avatar"
	BucketCategoryNews   BucketCategory = "news"
	BucketCategoryVideo  BucketCategory = "video"
)

// ErrObjectNotFound is returned by DeleteFile when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

func ParseBucketCategory(s string) (BucketCategory, bool) {
	switch c := BucketCategory(strings.ToLower(strings.TrimSpace(s))); c {
	case BucketCategoryAvatar, BucketCategoryNews, BucketCategoryVideo:
		return c, true
	}
	return "", false
}

type BucketConfig struct {
	Name      string
	CDNDomain string
}

type StorageConfig struct {
	// EmulatorHost points the client at fake-gcs-server (e.g. http://localhost:4443).
	EmulatorHost  string
	PublicBaseURL string
	Buckets       map[BucketCategory]BucketConfig
}

// StorageConfigFromEnv returns ok=false when no bucket is configured at all.
func StorageConfigFromEnv() (StorageConfig, bool) {
	cfg := StorageConfig{
		EmulatorHost:  strings.TrimRight(envutil.String("STORAGE_EMULATOR_HOST", ""), "/"),
		PublicBaseURL: strings.TrimRight(envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", ""), "/"),
		Buckets:       map[BucketCategory]BucketConfig{},
	}
	for _, c := range []BucketCategory{BucketCategoryAvatar, BucketCategoryNews, BucketCategoryVideo} {
		prefix := strings.ToUpper(string(c))
		name := envutil.String(prefix+"_GCS_BUCKET_NAME", "")
		if name == "" {
			continue
		}
		cfg.Buckets[c] = BucketConfig{Name: name, CDNDomain: envutil.String(prefix+"_CDN_DOMAIN", "")}
	}
	return cfg, len(cfg.Buckets) > 0
}

func (c StorageConfig) Validate() error {
	if len(c.Buckets) == 0 {
		return fmt.Errorf("no GCS buckets configured")
	}
	for _, raw := range []struct{ name, val string }{
		{"STORAGE_EMULATOR_HOST", c.EmulatorHost},
		{"OBJECT_STORAGE_PUBLIC_BASE_URL", c.PublicBaseURL},
	} {
		if raw.val == "" {
			continue
		}
		u, err := url.Parse(raw.val)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s=%q; expected absolute URL like http://localhost:4443", raw.name, raw.val)
		}
	}
	return nil
}

type BucketService interface {
	UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader) error
	DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error
	ListKeys(ctx context.Context, category BucketCategory, prefix string) ([]string, error)
	DeletePrefix(ctx context.Context, category BucketCategory, prefix string) error
	GetPublicURL(category BucketCategory, key string) string
	HasCategory(category BucketCategory) bool
	Close() error
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	cfg           StorageConfig
}

func NewBucketService(log *logger.Logger, cfg StorageConfig) (BucketService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	serviceLog := log.With("service", "BucketService")

	ctx := context.Background()
	var opts []option.ClientOption
	if cfg.EmulatorHost != "" {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		opts = append(opts, option.WithoutAuthentication())
	} else {
		opts = append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	names := make([]string, 0, len(cfg.Buckets))
	for c, b := range cfg.Buckets {
		names = append(names, string(c)+"="+b.Name)
	}
	serviceLog.Info("Object storage initialized",
		"emulator_host", cfg.EmulatorHost,
		"public_base_url", cfg.PublicBaseURL,
		"buckets", strings.Join(names, ","),
	)
	return &bucketService{log: serviceLog, storageClient: client, cfg: cfg}, nil
}

func (bs *bucketService) bucket(category BucketCategory) (BucketConfig, error) {
	b, ok := bs.cfg.Buckets[category]
	if !ok {
		return BucketConfig{}, fmt.Errorf("bucket category %q not configured", category)
	}
	return b, nil
}

func (bs *bucketService) HasCategory(category BucketCategory) bool {
	_, ok := bs.cfg.Buckets[category]
	return ok
}

func (bs *bucketService) UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader) error {
	b, err := bs.bucket(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Context(), 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(b.Name).Object(key).NewWriter(ctx)
	if ct := ContentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (bs *bucketService) DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error {
	b, err := bs.bucket(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Context(), 30*time.Second)
	defer cancel()
	if err := bs.storageClient.Bucket(b.Name).Object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, b.Name, err)
	}
	return nil
}

func (bs *bucketService) ListKeys(ctx context.Context, category BucketCategory, prefix string) ([]string, error) {
	b, err := bs.bucket(category)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	it := bs.storageClient.Bucket(b.Name).Objects(ctx, &storage.Query{Prefix: prefix})
	out := []string{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, attrs.Name)
	}
	return out, nil
}

func (bs *bucketService) DeletePrefix(ctx context.Context, category BucketCategory, prefix string) error {
	keys, err := bs.ListKeys(ctx, category, prefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := bs.DeleteFile(dbctx.Context{Ctx: ctx}, category, k); err != nil && !errors.Is(err, ErrObjectNotFound) {
			bs.log.Warn("Failed to delete object", "category", category, "key", k, "error", err)
		}
	}
	return nil
}

func (bs *bucketService) GetPublicURL(category BucketCategory, key string) string {
	b, err := bs.bucket(category)
	if err != nil {
		return key
	}
	return publicURL(bs.cfg, b, key)
}

func (bs *bucketService) Close() error { return bs.storageClient.Close() }

func publicURL(cfg StorageConfig, b BucketConfig, key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	switch {
	case b.CDNDomain != "":
		return fmt.Sprintf("https://%s/%s", b.CDNDomain, key)
	case cfg.EmulatorHost != "":
		base := cfg.PublicBaseURL
		if base == "" {
			base = cfg.EmulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(b.Name), url.PathEscape(key))
	case cfg.PublicBaseURL != "":
		return fmt.Sprintf("%s/%s/%s", cfg.PublicBaseURL, b.Name, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.Name, key)
}

func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch path.Ext(s) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".mp4", ".m4v":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	}
	return ""
}
