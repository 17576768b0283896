package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bundasehat/screening-backend/internal/data/repos"
	"github.com/bundasehat/screening-backend/internal/data/repos/testutil"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/apierr"
	"github.com/bundasehat/screening-backend/internal/platform/gcp"
)

type userFixture struct {
	repo   repos.UserRepo
	bucket *memBucket
	users  UserService
	auth   AuthService
}

func newUserFixture(t *testing.T) userFixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	repo := repos.NewUserRepo(db, log)
	bucket := newMemBucket(gcp.BucketCategoryAvatar)
	users := NewUserService(log, repo, mustAvatarService(t, repo, bucket), bucket)
	auth, err := NewAuthService(log, repo, users, "test-secret", 0)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return userFixture{repo: repo, bucket: bucket, users: users, auth: auth}
}

func statusOf(err error) int {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

func TestRegisterLoginParseRoundTrip(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u, err := f.auth.Register(ctx, UserInput{Name: "Siti Aminah", Email: " Siti@Example.com ", Password: "rahasia123", Role: "admin"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != types.RoleUser {
		t.Fatalf("registered role=%q want user", u.Role)
	}
	if u.Email != "siti@example.com" {
		t.Fatalf("email not normalised: %q", u.Email)
	}
	if u.Password == "rahasia123" {
		t.Fatal("password stored in clear text")
	}
	if u.AvatarURL == "" || f.bucket.count() != 1 {
		t.Fatalf("avatar not uploaded: url=%q objects=%d", u.AvatarURL, f.bucket.count())
	}

	res, err := f.auth.Login(ctx, "siti@example.com", "rahasia123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.ID != u.ID || res.Role != types.RoleUser || res.Name != "Siti Aminah" || res.Token == "" {
		t.Fatalf("login result=%+v", res)
	}

	rd, err := f.auth.ParseToken(res.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if rd.UserID != u.ID || rd.Role != types.RoleUser {
		t.Fatalf("request data=%+v", rd)
	}
	if f.auth.AccessTTL() != DefaultAccessTTL {
		t.Fatalf("ttl=%v", f.auth.AccessTTL())
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	if _, err := f.auth.Register(ctx, UserInput{Name: "Budi", Email: "budi@example.com", Password: "rahasia123"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	cases := []struct {
		name, email, password string
		status                int
	}{
		{"wrong password", "budi@example.com", "salah12345", http.StatusUnauthorized},
		{"unknown email", "nobody@example.com", "rahasia123", http.StatusUnauthorized},
		{"missing password", "budi@example.com", "", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.auth.Login(ctx, tc.email, tc.password)
			if got := statusOf(err); got != tc.status {
				t.Fatalf("status=%d want %d (err=%v)", got, tc.status, err)
			}
		})
	}
}

func TestParseTokenRejectsExpiredAndForeignTokens(t *testing.T) {
	f := newUserFixture(t)
	as := f.auth.(*authService)
	u := &types.User{ID: uuid.New(), Name: "X", Role: types.RoleAdmin}

	as.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	expired, err := as.sign(u)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	as.now = time.Now
	if _, err := f.auth.ParseToken(expired); statusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expired token accepted: %v", err)
	}

	foreign, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		Role:             types.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: u.ID.String(), ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("other-secret"))
	if _, err := f.auth.ParseToken(foreign); statusOf(err) != http.StatusUnauthorized {
		t.Fatalf("token signed with another key accepted: %v", err)
	}

	if _, err := f.auth.ParseToken(""); statusOf(err) != http.StatusUnauthorized {
		t.Fatalf("empty token accepted: %v", err)
	}
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	if _, err := NewAuthService(testutil.Logger(t), nil, nil, "  ", 0); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestUserCreateValidation(t *testing.T) {
	f := newUserFixture(t)
	ctx := asAdmin()
	if _, err := f.users.Create(ctx, UserInput{Name: "A", Email: "a@example.com", Password: "rahasia123"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cases := []struct {
		name   string
		in     UserInput
		status int
	}{
		{"duplicate email", UserInput{Name: "B", Email: "A@example.com", Password: "rahasia123"}, http.StatusConflict},
		{"bad email", UserInput{Name: "B", Email: "not-an-email", Password: "rahasia123"}, http.StatusBadRequest},
		{"short password", UserInput{Name: "B", Email: "b@example.com", Password: "123"}, http.StatusBadRequest},
		{"blank name", UserInput{Name: "  ", Email: "b@example.com", Password: "rahasia123"}, http.StatusBadRequest},
		{"unknown role", UserInput{Name: "B", Email: "b@example.com", Password: "rahasia123", Role: "root"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.users.Create(ctx, tc.in); statusOf(err) != tc.status {
				t.Fatalf("status=%d want %d (err=%v)", statusOf(err), tc.status, err)
			}
		})
	}
}

func TestUserUpdateAndDelete(t *testing.T) {
	f := newUserFixture(t)
	ctx := asAdmin()
	u, err := f.users.Create(ctx, UserInput{Name: "Dewi", Email: "dewi@example.com", Password: "rahasia123"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	name, role := "Dewi Lestari", types.RoleAdmin
	got, err := f.users.Update(ctx, u.ID, UserUpdate{Name: &name, Role: &role})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != name || got.Role != types.RoleAdmin || got.Email != "dewi@example.com" {
		t.Fatalf("updated=%+v", got)
	}

	if _, err := f.users.Update(ctx, uuid.New(), UserUpdate{Name: &name}); statusOf(err) != http.StatusNotFound {
		t.Fatalf("update missing user: %v", err)
	}

	if _, err := f.users.Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.bucket.count() != 0 {
		t.Fatalf("avatar objects left behind: %d", f.bucket.count())
	}
	if _, err := f.users.Get(ctx, u.ID); statusOf(err) != http.StatusNotFound {
		t.Fatalf("deleted user still readable: %v", err)
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := f.users.EnsureAdmin(ctx, "", "root@example.com", "rahasia123"); err != nil {
			t.Fatalf("EnsureAdmin #%d: %v", i, err)
		}
	}
	all, err := f.users.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 || all[0].Role != types.RoleAdmin || all[0].Name != "Administrator" {
		t.Fatalf("users=%+v", all)
	}
}

func TestAvatarGenerateAndUpload(t *testing.T) {
	f := newUserFixture(t)
	avatars := mustAvatarService(t, f.repo, f.bucket)

	buf, err := avatars.Generate(&types.User{ID: uuid.New(), Name: "siti aminah"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != avatarSize || b.Dy() != avatarSize {
		t.Fatalf("bounds=%v", b)
	}

	u, err := f.users.Create(context.Background(), UserInput{Name: "Rina", Email: "rina@example.com", Password: "rahasia123"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	firstKey := u.AvatarBucketKey

	var src bytes.Buffer
	if err := png.Encode(&src, image.NewRGBA(image.Rect(0, 0, 40, 20))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := f.users.SetAvatar(context.Background(), u.ID, src.Bytes())
	if err != nil {
		t.Fatalf("SetAvatar: %v", err)
	}
	if got.AvatarBucketKey == firstKey || !strings.HasPrefix(got.AvatarBucketKey, "user/"+u.ID.String()+"/") {
		t.Fatalf("avatar key=%q (first %q)", got.AvatarBucketKey, firstKey)
	}
	if f.bucket.count() != 1 {
		t.Fatalf("old avatar not replaced: objects=%d", f.bucket.count())
	}

	if _, err := f.users.SetAvatar(context.Background(), u.ID, []byte("not an image")); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("garbage image: %v", err)
	}
}

func TestInitials(t *testing.T) {
	cases := map[string]string{
		"siti aminah":       "SA",
		"  budi  ":          "B",
		"":                  "?",
		"dr. ayu putri sar": "DA",
		"élise noor":        "ÉN",
	}
	for in, want := range cases {
		if got := initials(in); got != want {
			t.Errorf("initials(%q)=%q want %q", in, got, want)
		}
	}
}
