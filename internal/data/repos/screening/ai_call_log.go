package screening

import (
	"gorm.io/gorm"

	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

type AICallLogRepo interface {
	Create(dbc dbctx.Context, logs []*types.AICallLog) ([]*types.AICallLog, error)
}

type aiCallLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAICallLogRepo(db *gorm.DB, baseLog *logger.Logger) AICallLogRepo {
	return &aiCallLogRepo{db: db, log: baseLog.With("repo", "AICallLogRepo")}
}

func (r *aiCallLogRepo) Create(dbc dbctx.Context, logs []*types.AICallLog) ([]*types.AICallLog, error) {
	if len(logs) == 0 {
		return []*types.AICallLog{}, nil
	}
	if err := dbc.Or(r.db).Create(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
