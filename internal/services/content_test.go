package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/bundasehat/screening-backend/internal/data/db"
	"github.com/bundasehat/screening-backend/internal/data/repos"
	"github.com/bundasehat/screening-backend/internal/data/repos/testutil"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/gcp"
)

func TestSanitizeQuestion(t *testing.T) {
	long := strings.Repeat("a", types.MaxQuestionLength+20)
	cases := []struct {
		name    string
		in      QuestionInput
		text    string
		options []string
		code    string
	}{
		{
			name:    "trims and drops blank options",
			in:      QuestionInput{Question: "  Merokok? ", Options: []OptionInput{{" Ya "}, {""}, {"   "}, {"Tidak"}}},
			text:    "Merokok?",
			options: []string{"Ya", "Tidak"},
		},
		{
			name:    "truncates long text",
			in:      QuestionInput{Question: long, Options: []OptionInput{{strings.Repeat("b", 150)}}},
			text:    long[:types.MaxQuestionLength],
			options: []string{strings.Repeat("b", types.MaxOptionLength)},
		},
		{name: "blank question", in: QuestionInput{Question: "  "}, code: "question_required"},
		{name: "duplicates after trim", in: QuestionInput{Question: "Q", Options: []OptionInput{{"Ya"}, {" Ya"}}}, code: "duplicate_option"},
		{name: "no options is allowed", in: QuestionInput{Question: "Q"}, text: "Q", options: []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text, opts, err := sanitizeQuestion(tc.in)
			if tc.code != "" {
				if err == nil || !strings.Contains(codeOf(err), tc.code) {
					t.Fatalf("err=%v want code %s", err, tc.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if text != tc.text || strings.Join(opts, "|") != strings.Join(tc.options, "|") {
				t.Fatalf("got %q %q", text, opts)
			}
		})
	}
}

func TestQuestionServiceReplaceAllUpdate(t *testing.T) {
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewQuestionService(log, repos.NewQuestionRepo(gdb, log), db.NewGormTxRunner(gdb))
	ctx := context.Background()

	q, err := svc.Create(ctx, QuestionInput{Question: "Riwayat diabetes?", Options: []OptionInput{{"Ya"}, {"Tidak"}}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := svc.Update(ctx, q.ID, QuestionInput{Question: "Riwayat diabetes keluarga?", Options: []OptionInput{{"Tidak tahu"}, {"Ya"}, {"Tidak"}}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Question != "Riwayat diabetes keluarga?" || len(got.Options) != 3 || got.Options[0].Value != "Tidak tahu" {
		t.Fatalf("updated=%+v", got)
	}

	if _, err := svc.Update(ctx, uuid.New(), QuestionInput{Question: "x"}); statusOf(err) != http.StatusNotFound {
		t.Fatalf("update missing: %v", err)
	}
	// A rejected update leaves the stored options alone.
	if _, err := svc.Update(ctx, q.ID, QuestionInput{Question: "x", Options: []OptionInput{{"a"}, {"a"}}}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("duplicate update: %v", err)
	}
	after, _ := svc.Get(ctx, q.ID)
	if len(after.Options) != 3 {
		t.Fatalf("options changed by rejected update: %+v", after.Options)
	}

	deleted, err := svc.Delete(ctx, q.ID)
	if err != nil || deleted.ID != q.ID {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, q.ID); statusOf(err) != http.StatusNotFound {
		t.Fatalf("deleted question readable: %v", err)
	}
}

func TestNewsServiceSanitises(t *testing.T) {
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewNewsService(log, repos.NewNewsRepo(gdb, log))
	ctx := context.Background()

	if _, err := svc.Create(ctx, NewsInput{Title: "  ", Thumbnail: "https://x/y.png"}); codeOf(err) != "title_required" {
		t.Fatalf("blank title: %v", err)
	}
	if _, err := svc.Create(ctx, NewsInput{Title: "Gizi ibu hamil"}); codeOf(err) != "thumbnail_required" {
		t.Fatalf("missing thumbnail: %v", err)
	}

	n, err := svc.Create(ctx, NewsInput{Title: strings.Repeat("t", 250), Thumbnail: " https://cdn/x.png ", IsActive: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(n.Title) != types.MaxNewsTitleLength || n.Thumbnail != "https://cdn/x.png" {
		t.Fatalf("news=%+v", n)
	}

	updated, err := svc.Update(ctx, n.ID, NewsInput{Title: "Baru", Thumbnail: "https://cdn/y.png", IsActive: false})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.IsActive || updated.Title != "Baru" {
		t.Fatalf("updated=%+v", updated)
	}
	active, err := svc.List(ctx, true)
	if err != nil || len(active) != 0 {
		t.Fatalf("active list=%v err=%v", active, err)
	}
	all, err := svc.List(ctx, false)
	if err != nil || len(all) != 1 {
		t.Fatalf("full list=%v err=%v", all, err)
	}
}

func TestVideoServiceRequiresAbsoluteLink(t *testing.T) {
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewVideoService(log, repos.NewVideoRepo(gdb, log))
	ctx := context.Background()

	if _, err := svc.Create(ctx, VideoInput{Name: "Senam hamil", LinkURL: "/relative"}); codeOf(err) != "invalid_link" {
		t.Fatalf("relative link: %v", err)
	}
	v, err := svc.Create(ctx, VideoInput{Name: "Senam hamil", LinkURL: "https://videos.example/senam.mp4", Duration: "12:30", IsActive: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Delete(ctx, v.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Delete(ctx, v.ID); statusOf(err) != http.StatusNotFound {
		t.Fatalf("second delete: %v", err)
	}
}

func TestMediaService(t *testing.T) {
	bucket := newMemBucket(gcp.BucketCategoryNews)
	svc := NewMediaService(testutil.Logger(t), bucket).(*mediaService)
	svc.newID = func() string { return "fixed" }
	ctx := context.Background()

	up, err := svc.Upload(ctx, "news", "Poster.PNG", strings.NewReader("png"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if up.Key != "news/fixed.png" || up.URL != "https://cdn.test/news/news/fixed.png" {
		t.Fatalf("uploaded=%+v", up)
	}

	cases := []struct {
		name, category, file, code string
	}{
		{"unknown category", "docs", "a.png", "invalid_category"},
		{"avatar is not media", "avatar", "a.png", "invalid_category"},
		{"unconfigured bucket", "video", "a.mp4", "category_unavailable"},
		{"unsupported type", "news", "a.exe", "unsupported_media_type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Upload(ctx, tc.category, tc.file, strings.NewReader("x")); codeOf(err) != tc.code {
				t.Fatalf("err=%v want %s", err, tc.code)
			}
		})
	}

	if err := svc.Delete(ctx, "news", "video/fixed.png"); codeOf(err) != "invalid_key" {
		t.Fatalf("cross-category delete: %v", err)
	}
	if err := svc.Delete(ctx, "news", "news/fixed.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, "news", "news/fixed.png"); statusOf(err) != http.StatusNotFound {
		t.Fatalf("second delete: %v", err)
	}
}
