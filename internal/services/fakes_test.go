package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/bundasehat/screening-backend/internal/data/repos"
	"github.com/bundasehat/screening-backend/internal/data/repos/testutil"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/apierr"
	"github.com/bundasehat/screening-backend/internal/platform/ctxutil"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/gcp"
)

type memBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	cats    map[gcp.BucketCategory]bool
}

func newMemBucket(cats ...gcp.BucketCategory) *memBucket {
	b := &memBucket{objects: map[string][]byte{}, cats: map[gcp.BucketCategory]bool{}}
	for _, c := range cats {
		b.cats[c] = true
	}
	return b
}

func (b *memBucket) UploadFile(dbc dbctx.Context, c gcp.BucketCategory, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[string(c)+":"+key] = data
	return nil
}

func (b *memBucket) DeleteFile(dbc dbctx.Context, c gcp.BucketCategory, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := string(c) + ":" + key
	if _, ok := b.objects[k]; !ok {
		return fmt.Errorf("%w: %s", gcp.ErrObjectNotFound, key)
	}
	delete(b.objects, k)
	return nil
}

func (b *memBucket) ListKeys(ctx context.Context, c gcp.BucketCategory, prefix string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for k := range b.objects {
		if key, ok := strings.CutPrefix(k, string(c)+":"); ok && strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (b *memBucket) DeletePrefix(ctx context.Context, c gcp.BucketCategory, prefix string) error {
	keys, _ := b.ListKeys(ctx, c, prefix)
	for _, k := range keys {
		_ = b.DeleteFile(dbctx.Context{Ctx: ctx}, c, k)
	}
	return nil
}

func (b *memBucket) GetPublicURL(c gcp.BucketCategory, key string) string {
	return "https://cdn.test/" + string(c) + "/" + key
}

func (b *memBucket) HasCategory(c gcp.BucketCategory) bool { return b.cats[c] }

func (b *memBucket) Close() error { return nil }

func (b *memBucket) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

func asUser(id uuid.UUID, role string) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: id, Role: role})
}

func asAdmin() context.Context {
	return asUser(uuid.New(), types.RoleAdmin)
}

type evalStub struct {
	calls []uuid.UUID
	err   error
	fn    func(id uuid.UUID) (*types.AnswerSession, error)
}

func (e *evalStub) EvaluateAndSave(ctx context.Context, id uuid.UUID) (*types.AnswerSession, error) {
	e.calls = append(e.calls, id)
	if e.err != nil {
		return nil, e.err
	}
	return e.fn(id)
}

func mustAvatarService(t *testing.T, userRepo repos.UserRepo, bucket gcp.BucketService) AvatarService {
	t.Helper()
	svc, err := NewAvatarService(testutil.Logger(t), userRepo, bucket)
	if err != nil {
		t.Fatalf("NewAvatarService: %v", err)
	}
	return svc
}

func codeOf(err error) string {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
