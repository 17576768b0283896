package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/bundasehat/screening-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Name:     "Test User",
		Email:    email,
		Password: "pw",
		Role:     types.RoleUser,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedPatient(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) *types.PatientInformation {
	tb.Helper()
	p := &types.PatientInformation{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed patient: %v", err)
	}
	return p
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, text string, options ...string) *types.Question {
	tb.Helper()
	q := &types.Question{ID: uuid.New(), Question: text}
	for i, v := range options {
		q.Options = append(q.Options, types.QuestionOption{ID: uuid.New(), Value: v, Position: i})
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}

// SeedSession creates an unevaluated session answering each question with the option at the same index.
func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, patientID *uuid.UUID, questions []*types.Question, picks []int) *types.AnswerSession {
	tb.Helper()
	s := &types.AnswerSession{ID: uuid.New(), UserID: userID, PatientID: patientID}
	for i, q := range questions {
		s.Answers = append(s.Answers, types.Answer{
			ID:               uuid.New(),
			QuestionID:       q.ID,
			SelectedOptionID: q.Options[picks[i]].ID,
			Position:         i,
		})
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}
