package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/bundasehat/screening-backend/internal/data/repos"
	"github.com/bundasehat/screening-backend/internal/data/repos/testutil"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/modules/screening"
)

type sessionFixture struct {
	svc      AnswerSessionService
	patients PatientService
	owner    *types.User
	patient  *types.PatientInformation
	smoke    *types.Question
	diabetes *types.Question
}

func newSessionFixture(t *testing.T, evaluator SessionEvaluator) sessionFixture {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	sessions := repos.NewAnswerSessionRepo(gdb, log)
	if evaluator == nil {
		evaluator = screening.NewEvaluator(log, screening.EvaluatorDeps{Sessions: sessions})
	}
	owner := testutil.SeedUser(t, ctx, gdb, "ibu@example.com")
	return sessionFixture{
		svc:      NewAnswerSessionService(log, sessions, repos.NewQuestionRepo(gdb, log), repos.NewPatientRepo(gdb, log), evaluator),
		patients: NewPatientService(log, repos.NewPatientRepo(gdb, log)),
		owner:    owner,
		patient:  testutil.SeedPatient(t, ctx, gdb, owner.ID, "Siti"),
		smoke:    testutil.SeedQuestion(t, ctx, gdb, "Merokok?", "Ya", "Tidak"),
		diabetes: testutil.SeedQuestion(t, ctx, gdb, "Riwayat diabetes?", "Ya", "Tidak"),
	}
}

func TestAnswerSessionCreateEvaluatesBeforeReturning(t *testing.T) {
	f := newSessionFixture(t, nil)
	ctx := asUser(f.owner.ID, types.RoleUser)

	got, err := f.svc.Create(ctx, AnswerSessionInput{
		PatientID: &f.patient.ID,
		Answers: []AnswerInput{
			{QuestionID: f.smoke.ID, SelectedOptionID: f.smoke.Options[1].ID},
			{QuestionID: f.diabetes.ID, SelectedOptionID: f.diabetes.Options[0].ID},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.UserID != f.owner.ID || got.SubmittedAt == nil || got.Percentage == nil || got.Summary == nil {
		t.Fatalf("session not evaluated: %+v", got)
	}
	// No model is configured, so the fallback result is stored.
	if *got.Percentage != 50 || !strings.HasPrefix(*got.Summary, "Risk Level: Medium (50/100)") {
		t.Fatalf("percentage=%d summary=%q", *got.Percentage, *got.Summary)
	}
	if len(got.Answers) != 2 || got.Answers[0].Question.Question != "Merokok?" || got.Answers[1].SelectedOption.Value != "Ya" {
		t.Fatalf("answers=%+v", got.Answers)
	}

	list, err := f.svc.ListByUser(ctx, f.owner.ID)
	if err != nil || len(list) != 1 || list[0].ID != got.ID {
		t.Fatalf("ListByUser=%v err=%v", list, err)
	}
	one, err := f.svc.Get(ctx, got.ID)
	if err != nil || one.Patient == nil || one.Patient.Name != "Siti" {
		t.Fatalf("Get=%+v err=%v", one, err)
	}
}

func TestAnswerSessionCreateValidation(t *testing.T) {
	f := newSessionFixture(t, &evalStub{err: fmt.Errorf("must not evaluate")})
	ctx := asUser(f.owner.ID, types.RoleUser)
	stranger := uuid.New()

	cases := []struct {
		name string
		in   AnswerSessionInput
		code string
	}{
		{"no answers", AnswerSessionInput{}, "answers_required"},
		{"missing ids", AnswerSessionInput{Answers: []AnswerInput{{QuestionID: f.smoke.ID}}}, "invalid_answer"},
		{"duplicate question", AnswerSessionInput{Answers: []AnswerInput{
			{QuestionID: f.smoke.ID, SelectedOptionID: f.smoke.Options[0].ID},
			{QuestionID: f.smoke.ID, SelectedOptionID: f.smoke.Options[1].ID},
		}}, "duplicate_answer"},
		{"option of another question", AnswerSessionInput{Answers: []AnswerInput{
			{QuestionID: f.smoke.ID, SelectedOptionID: f.diabetes.Options[0].ID},
		}}, "option_mismatch"},
		{"unknown option", AnswerSessionInput{Answers: []AnswerInput{
			{QuestionID: f.smoke.ID, SelectedOptionID: uuid.New()},
		}}, "unknown_option"},
		{"unknown patient", AnswerSessionInput{PatientID: &stranger, Answers: []AnswerInput{
			{QuestionID: f.smoke.ID, SelectedOptionID: f.smoke.Options[0].ID},
		}}, "unknown_patient"},
		{"acting for another user", AnswerSessionInput{UserID: &stranger, Answers: []AnswerInput{
			{QuestionID: f.smoke.ID, SelectedOptionID: f.smoke.Options[0].ID},
		}}, "forbidden"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Create(ctx, tc.in); codeOf(err) != tc.code {
				t.Fatalf("err=%v want code %s", err, tc.code)
			}
		})
	}

	if _, err := f.svc.Create(context.Background(), AnswerSessionInput{}); statusOf(err) != http.StatusUnauthorized {
		t.Fatalf("anonymous create: %v", err)
	}
}

func TestAnswerSessionEvaluatorErrorsMapToAPIErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: x", screening.ErrEvaluationInProgress), http.StatusConflict, "evaluation_in_progress"},
		{fmt.Errorf("%w: x", screening.ErrSessionNotFound), http.StatusNotFound, "session_not_found"},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			f := newSessionFixture(t, &evalStub{err: tc.err})
			_, err := f.svc.Reevaluate(asAdmin(), uuid.New())
			if statusOf(err) != tc.status || codeOf(err) != tc.code {
				t.Fatalf("err=%v status=%d code=%q", err, statusOf(err), codeOf(err))
			}
		})
	}
}

func TestAnswerSessionAccessIsScopedToOwner(t *testing.T) {
	f := newSessionFixture(t, nil)
	owner := asUser(f.owner.ID, types.RoleUser)
	created, err := f.svc.Create(owner, AnswerSessionInput{Answers: []AnswerInput{
		{QuestionID: f.smoke.ID, SelectedOptionID: f.smoke.Options[0].ID},
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	other := asUser(uuid.New(), types.RoleUser)
	if _, err := f.svc.Get(other, created.ID); statusOf(err) != http.StatusForbidden {
		t.Fatalf("foreign Get: %v", err)
	}
	if _, err := f.svc.ListByUser(other, f.owner.ID); statusOf(err) != http.StatusForbidden {
		t.Fatalf("foreign ListByUser: %v", err)
	}
	if list, err := f.svc.ListByUser(asAdmin(), f.owner.ID); err != nil || len(list) != 1 {
		t.Fatalf("admin ListByUser=%v err=%v", list, err)
	}
	if _, err := f.svc.Get(owner, uuid.New()); statusOf(err) != http.StatusNotFound {
		t.Fatalf("missing session: %v", err)
	}
}

func TestPatientServiceCreate(t *testing.T) {
	f := newSessionFixture(t, nil)
	age := 27
	p, err := f.patients.Create(asUser(f.owner.ID, types.RoleUser), PatientInput{Name: " Ayu ", Age: &age, Phone: "0812"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.UserID != f.owner.ID || p.Name != "Ayu" || *p.Age != 27 {
		t.Fatalf("patient=%+v", p)
	}
	bad := -1
	if _, err := f.patients.Create(asUser(f.owner.ID, types.RoleUser), PatientInput{Name: "X", Age: &bad}); codeOf(err) != "invalid_age" {
		t.Fatalf("negative age: %v", err)
	}
	if _, err := f.patients.Get(asUser(uuid.New(), types.RoleUser), p.ID); statusOf(err) != http.StatusForbidden {
		t.Fatalf("foreign Get: %v", err)
	}
}
