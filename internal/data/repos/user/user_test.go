package user

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/bundasehat/screening-backend/internal/data/dberr"
	"github.com/bundasehat/screening-backend/internal/data/repos/testutil"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	created, err := repo.Create(dbc, []*types.User{
		{Name: "Admin", Email: "userrepo@example.com", Password: "pw", Role: types.RoleAdmin},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: unexpected result: %+v", created)
	}

	got, err := repo.GetByID(dbc, created[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != "userrepo@example.com" || got.Role != types.RoleAdmin {
		t.Fatalf("GetByID: unexpected user: %+v", got)
	}

	byEmail, err := repo.GetByEmail(dbc, created[0].Email)
	if err != nil || byEmail.ID != created[0].ID {
		t.Fatalf("GetByEmail: %v %+v", err, byEmail)
	}

	exists, err := repo.EmailExists(dbc, created[0].Email)
	if err != nil || !exists {
		t.Fatalf("EmailExists: %v %v", exists, err)
	}
	exists, err = repo.EmailExists(dbc, "does-not-exist@example.com")
	if err != nil || exists {
		t.Fatalf("EmailExists (missing): %v %v", exists, err)
	}

	if _, err := repo.Create(dbc, []*types.User{{Name: "Dup", Email: created[0].Email, Password: "pw"}}); !dberr.IsConflict(err) {
		t.Fatalf("Create duplicate: expected conflict, got %v", err)
	}
}

func TestUserRepo_UpdateAndDelete(t *testing.T) {
	db := testutil.DB(t)
	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	u := testutil.SeedUser(t, ctx, db, "update@example.com")
	if err := repo.UpdateFields(dbc, u.ID, map[string]any{"name": "Renamed"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err := repo.GetByID(dbc, u.ID)
	if err != nil || got.Name != "Renamed" {
		t.Fatalf("GetByID after update: %v %+v", err, got)
	}

	if err := repo.UpdateFields(dbc, uuid.New(), map[string]any{"name": "x"}); !dberr.IsNotFound(err) {
		t.Fatalf("UpdateFields missing: expected not found, got %v", err)
	}

	if err := repo.Delete(dbc, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(dbc, u.ID); !dberr.IsNotFound(err) {
		t.Fatalf("GetByID after delete: expected not found, got %v", err)
	}
	list, err := repo.List(dbc)
	if err != nil || len(list) != 0 {
		t.Fatalf("List after delete: %v %d", err, len(list))
	}
}

func TestPatientRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	u := testutil.SeedUser(t, ctx, db, "patient-owner@example.com")

	repo := NewPatientRepo(db, testutil.Logger(t))
	p, err := repo.Create(dbc, &types.PatientInformation{UserID: u.ID, Name: "Siti"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetByID(dbc, p.ID)
	if err != nil || got.Name != "Siti" {
		t.Fatalf("GetByID: %v %+v", err, got)
	}
}
