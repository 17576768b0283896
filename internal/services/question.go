package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/bundasehat/screening-backend/internal/data/db"
	"github.com/bundasehat/screening-backend/internal/data/repos"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

type OptionInput struct {
	Value string `json:"value"`
}

type QuestionInput struct {
	Question string        `json:"question"`
	Options  []OptionInput `json:"options"`
}

type QuestionService interface {
	List(ctx context.Context) ([]*types.Question, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Question, error)
	Create(ctx context.Context, in QuestionInput) (*types.Question, error)
	// Update rewrites the text and replaces every option in one transaction.
	Update(ctx context.Context, id uuid.UUID, in QuestionInput) (*types.Question, error)
	Delete(ctx context.Context, id uuid.UUID) (*types.Question, error)
}

type questionService struct {
	log  *logger.Logger
	repo repos.QuestionRepo
	tx   db.TxRunner
}

func NewQuestionService(log *logger.Logger, repo repos.QuestionRepo, tx db.TxRunner) QuestionService {
	return &questionService{log: log.With("service", "QuestionService"), repo: repo, tx: tx}
}

func (qs *questionService) List(ctx context.Context) ([]*types.Question, error) {
	out, err := qs.repo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, mapRepoErr(err, "question_not_found")
	}
	return out, nil
}

func (qs *questionService) Get(ctx context.Context, id uuid.UUID) (*types.Question, error) {
	q, err := qs.repo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, mapRepoErr(err, "question_not_found")
	}
	return q, nil
}

func (qs *questionService) Create(ctx context.Context, in QuestionInput) (*types.Question, error) {
	text, values, err := sanitizeQuestion(in)
	if err != nil {
		return nil, err
	}
	q := &types.Question{Question: text}
	for _, v := range values {
		q.Options = append(q.Options, types.QuestionOption{Value: v})
	}
	if _, err := qs.repo.Create(dbctx.Context{Ctx: ctx}, q); err != nil {
		return nil, mapRepoErr(err, "question_not_found")
	}
	qs.log.Info("Question created", "question_id", q.ID, "options", len(values))
	return q, nil
}

func (qs *questionService) Update(ctx context.Context, id uuid.UUID, in QuestionInput) (*types.Question, error) {
	text, values, err := sanitizeQuestion(in)
	if err != nil {
		return nil, err
	}
	var out *types.Question
	err = qs.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if err := qs.repo.UpdateText(dbc, id, text); err != nil {
			return err
		}
		if err := qs.repo.ReplaceOptions(dbc, id, values); err != nil {
			return err
		}
		q, err := qs.repo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		out = q
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err, "question_not_found")
	}
	return out, nil
}

func (qs *questionService) Delete(ctx context.Context, id uuid.UUID) (*types.Question, error) {
	var out *types.Question
	err := qs.tx.InTx(ctx, func(dbc dbctx.Context) error {
		q, err := qs.repo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		out = q
		return qs.repo.Delete(dbc, id)
	})
	if err != nil {
		return nil, mapRepoErr(err, "question_not_found")
	}
	return out, nil
}

// sanitizeQuestion trims and truncates the text and options, drops blank
// options and rejects duplicates.
func sanitizeQuestion(in QuestionInput) (string, []string, error) {
	text := truncateRunes(in.Question, types.MaxQuestionLength)
	if text == "" {
		return "", nil, invalid("question_required", "question is required")
	}
	seen := make(map[string]struct{}, len(in.Options))
	values := make([]string, 0, len(in.Options))
	for _, o := range in.Options {
		v := truncateRunes(o.Value, types.MaxOptionLength)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			return "", nil, invalid("duplicate_option", "option values must be unique: %q", v)
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return text, values, nil
}
