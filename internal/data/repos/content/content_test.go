package content

import (
	"context"
	"testing"

	"github.com/bundasehat/screening-backend/internal/data/dberr"
	"github.com/bundasehat/screening-backend/internal/data/repos/testutil"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
)

func TestNewsRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewNewsRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	active, err := repo.Create(dbc, &types.News{Title: "Gizi ibu hamil", Thumbnail: "https://cdn/x.png", IsActive: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(dbc, &types.News{Title: "Draft", Thumbnail: "https://cdn/y.png", IsActive: false}); err != nil {
		t.Fatalf("Create inactive: %v", err)
	}

	all, err := repo.List(dbc, false)
	if err != nil || len(all) != 2 {
		t.Fatalf("List all: %v %d", err, len(all))
	}
	onlyActive, err := repo.List(dbc, true)
	if err != nil || len(onlyActive) != 1 || onlyActive[0].ID != active.ID {
		t.Fatalf("List active: %v %+v", err, onlyActive)
	}

	if err := repo.UpdateFields(dbc, active.ID, map[string]any{"is_active": false}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err := repo.GetByID(dbc, active.ID)
	if err != nil || got.IsActive {
		t.Fatalf("GetByID after deactivate: %v %+v", err, got)
	}

	if err := repo.Delete(dbc, active.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(dbc, active.ID); !dberr.IsNotFound(err) {
		t.Fatalf("second Delete: expected not found, got %v", err)
	}
}

func TestVideoRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewVideoRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	v, err := repo.Create(dbc, &types.VideoInformation{
		Name:     "Senam hamil",
		LinkURL:  "https://cdn/video.mp4",
		Duration: "12:30",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetByID(dbc, v.ID)
	if err != nil || got.Duration != "12:30" {
		t.Fatalf("GetByID: %v %+v", err, got)
	}
}
