package screening

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bundasehat/screening-backend/internal/data/dberr"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

type AnswerSessionRepo interface {
	Create(dbc dbctx.Context, s *types.AnswerSession) (*types.AnswerSession, error)
	// GetWithAnswers loads the session with its patient and its answers in
	// submission order, each with question and selected option.
	GetWithAnswers(dbc dbctx.Context, id uuid.UUID) (*types.AnswerSession, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.AnswerSession, error)
	// UpdateEvaluation writes percentage, summary and submitted_at in one statement.
	UpdateEvaluation(dbc dbctx.Context, id uuid.UUID, percentage int, summary string, submittedAt time.Time) error
}

type answerSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnswerSessionRepo(db *gorm.DB, baseLog *logger.Logger) AnswerSessionRepo {
	return &answerSessionRepo{db: db, log: baseLog.With("repo", "AnswerSessionRepo")}
}

func orderAnswers(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, created_at ASC, id ASC")
}

func (r *answerSessionRepo) withAnswers(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Patient").
		Preload("Answers", orderAnswers).
		Preload("Answers.Question").
		Preload("Answers.SelectedOption")
}

func (r *answerSessionRepo) Create(dbc dbctx.Context, s *types.AnswerSession) (*types.AnswerSession, error) {
	for i := range s.Answers {
		s.Answers[i].Position = i
	}
	if err := dbc.Or(r.db).Create(s).Error; err != nil {
		return nil, dberr.MapError("answer_session.create", err)
	}
	return s, nil
}

func (r *answerSessionRepo) GetWithAnswers(dbc dbctx.Context, id uuid.UUID) (*types.AnswerSession, error) {
	var s types.AnswerSession
	if err := r.withAnswers(dbc.Or(r.db)).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, dberr.MapError("answer_session.get", err)
	}
	return &s, nil
}

func (r *answerSessionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.AnswerSession, error) {
	var out []*types.AnswerSession
	if err := r.withAnswers(dbc.Or(r.db)).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *answerSessionRepo) UpdateEvaluation(dbc dbctx.Context, id uuid.UUID, percentage int, summary string, submittedAt time.Time) error {
	res := dbc.Or(r.db).
		Model(&types.AnswerSession{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"percentage":   percentage,
			"summary":      summary,
			"submitted_at": submittedAt,
		})
	if res.Error != nil {
		return dberr.MapError("answer_session.update_evaluation", res.Error)
	}
	if res.RowsAffected == 0 {
		return dberr.MapError("answer_session.update_evaluation", gorm.ErrRecordNotFound)
	}
	return nil
}
