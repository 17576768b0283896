package screening

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bundasehat/screening-backend/internal/data/dberr"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

type QuestionRepo interface {
	Create(dbc dbctx.Context, q *types.Question) (*types.Question, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Question, error)
	List(dbc dbctx.Context) ([]*types.Question, error)
	UpdateText(dbc dbctx.Context, id uuid.UUID, text string) error
	ReplaceOptions(dbc dbctx.Context, id uuid.UUID, values []string) error
	GetOptionsByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.QuestionOption, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func orderOptions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, created_at ASC")
}

func (r *questionRepo) Create(dbc dbctx.Context, q *types.Question) (*types.Question, error) {
	for i := range q.Options {
		q.Options[i].Position = i
	}
	if err := dbc.Or(r.db).Create(q).Error; err != nil {
		return nil, dberr.MapError("question.create", err)
	}
	return q, nil
}

func (r *questionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Question, error) {
	var q types.Question
	if err := dbc.Or(r.db).
		Preload("Options", orderOptions).
		Where("id = ?", id).
		First(&q).Error; err != nil {
		return nil, dberr.MapError("question.get", err)
	}
	return &q, nil
}

func (r *questionRepo) List(dbc dbctx.Context) ([]*types.Question, error) {
	var out []*types.Question
	if err := dbc.Or(r.db).
		Preload("Options", orderOptions).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionRepo) UpdateText(dbc dbctx.Context, id uuid.UUID, text string) error {
	res := dbc.Or(r.db).Model(&types.Question{}).Where("id = ?", id).Update("question", text)
	if res.Error != nil {
		return dberr.MapError("question.update", res.Error)
	}
	if res.RowsAffected == 0 {
		return dberr.MapError("question.update", gorm.ErrRecordNotFound)
	}
	return nil
}

// ReplaceOptions deletes every option of the question and inserts values in order.
// Callers wanting atomicity pass a transaction in dbc.
func (r *questionRepo) ReplaceOptions(dbc dbctx.Context, id uuid.UUID, values []string) error {
	db := dbc.Or(r.db)
	if err := db.Where("question_id = ?", id).Delete(&types.QuestionOption{}).Error; err != nil {
		return dberr.MapError("question.replace_options", err)
	}
	if len(values) == 0 {
		return nil
	}
	opts := make([]*types.QuestionOption, 0, len(values))
	for i, v := range values {
		opts = append(opts, &types.QuestionOption{QuestionID: id, Value: v, Position: i})
	}
	if err := db.Create(&opts).Error; err != nil {
		return dberr.MapError("question.replace_options", err)
	}
	return nil
}

func (r *questionRepo) GetOptionsByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.QuestionOption, error) {
	var out []*types.QuestionOption
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.Or(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	db := dbc.Or(r.db)
	if err := db.Where("question_id = ?", id).Delete(&types.QuestionOption{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&types.Question{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return dberr.MapError("question.delete", gorm.ErrRecordNotFound)
	}
	return nil
}
