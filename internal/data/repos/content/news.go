package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bundasehat/screening-backend/internal/data/dberr"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

type NewsRepo interface {
	Create(dbc dbctx.Context, n *types.News) (*types.News, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.News, error)
	List(dbc dbctx.Context, onlyActive bool) ([]*types.News, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type newsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNewsRepo(db *gorm.DB, baseLog *logger.Logger) NewsRepo {
	return &newsRepo{db: db, log: baseLog.With("repo", "NewsRepo")}
}

func (r *newsRepo) Create(dbc dbctx.Context, n *types.News) (*types.News, error) {
	if err := dbc.Or(r.db).Create(n).Error; err != nil {
		return nil, dberr.MapError("news.create", err)
	}
	return n, nil
}

func (r *newsRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.News, error) {
	var n types.News
	if err := dbc.Or(r.db).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, dberr.MapError("news.get", err)
	}
	return &n, nil
}

func (r *newsRepo) List(dbc dbctx.Context, onlyActive bool) ([]*types.News, error) {
	q := dbc.Or(r.db).Order("created_at DESC")
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	var out []*types.News
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *newsRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	res := dbc.Or(r.db).Model(&types.News{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return dberr.MapError("news.update", res.Error)
	}
	if res.RowsAffected == 0 {
		return dberr.MapError("news.update", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *newsRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	res := dbc.Or(r.db).Where("id = ?", id).Delete(&types.News{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return dberr.MapError("news.delete", gorm.ErrRecordNotFound)
	}
	return nil
}
