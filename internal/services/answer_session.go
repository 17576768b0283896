package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bundasehat/screening-backend/internal/data/dberr"
	"github.com/bundasehat/screening-backend/internal/data/repos"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/apierr"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

// MaxAnswersPerSession bounds one submission.
const MaxAnswersPerSession = 200

type AnswerInput struct {
	QuestionID       uuid.UUID `json:"question_id"`
	SelectedOptionID uuid.UUID `json:"selected_option_id"`
}

type AnswerSessionInput struct {
	UserID    *uuid.UUID    `json:"user_id"`
	PatientID *uuid.UUID    `json:"patient_id"`
	StartedAt *time.Time    `json:"started_at"`
	Answers   []AnswerInput `json:"answers"`
}

// SessionEvaluator scores a stored session and persists the result.
type SessionEvaluator interface {
	EvaluateAndSave(ctx context.Context, sessionID uuid.UUID) (*types.AnswerSession, error)
}

type AnswerSessionService interface {
	// Create stores the session with its answers and evaluates it before returning.
	Create(ctx context.Context, in AnswerSessionInput) (*types.AnswerSession, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.AnswerSession, error)
	Get(ctx context.Context, id uuid.UUID) (*types.AnswerSession, error)
	Reevaluate(ctx context.Context, id uuid.UUID) (*types.AnswerSession, error)
}

type answerSessionService struct {
	log       *logger.Logger
	sessions  repos.AnswerSessionRepo
	questions repos.QuestionRepo
	patients  repos.PatientRepo
	evaluator SessionEvaluator
}

func NewAnswerSessionService(
	log *logger.Logger,
	sessions repos.AnswerSessionRepo,
	questions repos.QuestionRepo,
	patients repos.PatientRepo,
	evaluator SessionEvaluator,
) AnswerSessionService {
	return &answerSessionService{
		log:       log.With("service", "AnswerSessionService"),
		sessions:  sessions,
		questions: questions,
		patients:  patients,
		evaluator: evaluator,
	}
}

func (s *answerSessionService) Create(ctx context.Context, in AnswerSessionInput) (*types.AnswerSession, error) {
	owner, err := ownerFor(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := s.checkAnswers(dbc, in.Answers); err != nil {
		return nil, err
	}
	if in.PatientID != nil && *in.PatientID != uuid.Nil {
		p, err := s.patients.GetByID(dbc, *in.PatientID)
		if err != nil {
			if dberr.IsNotFound(err) {
				return nil, invalid("unknown_patient", "patient %s does not exist", *in.PatientID)
			}
			return nil, mapRepoErr(err, "patient_not_found")
		}
		if p.UserID != owner {
			return nil, invalid("unknown_patient", "patient %s does not belong to user %s", p.ID, owner)
		}
	} else {
		in.PatientID = nil
	}

	session := &types.AnswerSession{UserID: owner, PatientID: in.PatientID}
	if in.StartedAt != nil {
		session.StartedAt = in.StartedAt.UTC()
	}
	for _, a := range in.Answers {
		session.Answers = append(session.Answers, types.Answer{
			QuestionID:       a.QuestionID,
			SelectedOptionID: a.SelectedOptionID,
		})
	}
	if _, err := s.sessions.Create(dbc, session); err != nil {
		return nil, mapRepoErr(err, "session_not_found")
	}
	s.log.Info("Answer session created", "session_id", session.ID, "answers", len(session.Answers))

	evaluated, err := s.evaluator.EvaluateAndSave(ctx, session.ID)
	if err != nil {
		return nil, mapRepoErr(err, "session_not_found")
	}
	return evaluated, nil
}

// checkAnswers requires every option to exist and belong to its question,
// with each question answered at most once.
func (s *answerSessionService) checkAnswers(dbc dbctx.Context, answers []AnswerInput) error {
	if len(answers) == 0 {
		return invalid("answers_required", "at least one answer is required")
	}
	if len(answers) > MaxAnswersPerSession {
		return invalid("too_many_answers", "at most %d answers are allowed", MaxAnswersPerSession)
	}
	seen := make(map[uuid.UUID]struct{}, len(answers))
	optionIDs := make([]uuid.UUID, 0, len(answers))
	for i, a := range answers {
		if a.QuestionID == uuid.Nil || a.SelectedOptionID == uuid.Nil {
			return invalid("invalid_answer", "answer %d needs question_id and selected_option_id", i)
		}
		if _, dup := seen[a.QuestionID]; dup {
			return invalid("duplicate_answer", "question %s answered more than once", a.QuestionID)
		}
		seen[a.QuestionID] = struct{}{}
		optionIDs = append(optionIDs, a.SelectedOptionID)
	}

	opts, err := s.questions.GetOptionsByIDs(dbc, optionIDs)
	if err != nil {
		return apierr.Internal(err)
	}
	owners := make(map[uuid.UUID]uuid.UUID, len(opts))
	for _, o := range opts {
		owners[o.ID] = o.QuestionID
	}
	for i, a := range answers {
		q, ok := owners[a.SelectedOptionID]
		if !ok {
			return invalid("unknown_option", "answer %d selects unknown option %s", i, a.SelectedOptionID)
		}
		if q != a.QuestionID {
			return invalid("option_mismatch", "answer %d: option %s does not belong to question %s", i, a.SelectedOptionID, a.QuestionID)
		}
	}
	return nil
}

func (s *answerSessionService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.AnswerSession, error) {
	owner, err := ownerFor(ctx, &userID)
	if err != nil {
		return nil, err
	}
	out, err := s.sessions.ListByUser(dbctx.Context{Ctx: ctx}, owner)
	if err != nil {
		return nil, mapRepoErr(err, "session_not_found")
	}
	return out, nil
}

func (s *answerSessionService) Get(ctx context.Context, id uuid.UUID) (*types.AnswerSession, error) {
	session, err := s.sessions.GetWithAnswers(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, mapRepoErr(err, "session_not_found")
	}
	if _, err := ownerFor(ctx, &session.UserID); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *answerSessionService) Reevaluate(ctx context.Context, id uuid.UUID) (*types.AnswerSession, error) {
	out, err := s.evaluator.EvaluateAndSave(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "session_not_found")
	}
	s.log.Info("Answer session re-evaluated", "session_id", id)
	return out, nil
}
