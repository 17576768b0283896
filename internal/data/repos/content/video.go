package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bundasehat/screening-backend/internal/data/dberr"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

type VideoRepo interface {
	Create(dbc dbctx.Context, v *types.VideoInformation) (*types.VideoInformation, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.VideoInformation, error)
	List(dbc dbctx.Context, onlyActive bool) ([]*types.VideoInformation, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type videoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoRepo(db *gorm.DB, baseLog *logger.Logger) VideoRepo {
	return &videoRepo{db: db, log: baseLog.With("repo", "VideoRepo")}
}

func (r *videoRepo) Create(dbc dbctx.Context, v *types.VideoInformation) (*types.VideoInformation, error) {
	if err := dbc.Or(r.db).Create(v).Error; err != nil {
		return nil, dberr.MapError("video.create", err)
	}
	return v, nil
}

func (r *videoRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.VideoInformation, error) {
	var v types.VideoInformation
	if err := dbc.Or(r.db).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, dberr.MapError("video.get", err)
	}
	return &v, nil
}

func (r *videoRepo) List(dbc dbctx.Context, onlyActive bool) ([]*types.VideoInformation, error) {
	q := dbc.Or(r.db).Order("created_at DESC")
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	var out []*types.VideoInformation
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *videoRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	res := dbc.Or(r.db).Model(&types.VideoInformation{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return dberr.MapError("video.update", res.Error)
	}
	if res.RowsAffected == 0 {
		return dberr.MapError("video.update", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *videoRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	res := dbc.Or(r.db).Where("id = ?", id).Delete(&types.VideoInformation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return dberr.MapError("video.delete", gorm.ErrRecordNotFound)
	}
	return nil
}
