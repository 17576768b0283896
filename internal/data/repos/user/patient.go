package user

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bundasehat/screening-backend/internal/data/dberr"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

type PatientRepo interface {
	Create(dbc dbctx.Context, p *types.PatientInformation) (*types.PatientInformation, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PatientInformation, error)
}

type patientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPatientRepo(db *gorm.DB, baseLog *logger.Logger) PatientRepo {
	return &patientRepo{db: db, log: baseLog.With("repo", "PatientRepo")}
}

func (r *patientRepo) Create(dbc dbctx.Context, p *types.PatientInformation) (*types.PatientInformation, error) {
	if err := dbc.Or(r.db).Create(p).Error; err != nil {
		return nil, dberr.MapError("patient.create", err)
	}
	return p, nil
}

func (r *patientRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PatientInformation, error) {
	var p types.PatientInformation
	if err := dbc.Or(r.db).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, dberr.MapError("patient.get", err)
	}
	return &p, nil
}
