package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/bundasehat/screening-backend/internal/data/repos"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

type PatientInput struct {
	UserID  *uuid.UUID `json:"user_id"`
	Name    string     `json:"name"`
	Age     *int       `json:"age"`
	Phone   string     `json:"phone"`
	Address string     `json:"address"`
}

type PatientService interface {
	Create(ctx context.Context, in PatientInput) (*types.PatientInformation, error)
	Get(ctx context.Context, id uuid.UUID) (*types.PatientInformation, error)
}

type patientService struct {
	log  *logger.Logger
	repo repos.PatientRepo
}

func NewPatientService(log *logger.Logger, repo repos.PatientRepo) PatientService {
	return &patientService{log: log.With("service", "PatientService"), repo: repo}
}

func (ps *patientService) Create(ctx context.Context, in PatientInput) (*types.PatientInformation, error) {
	owner, err := ownerFor(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	name := truncateRunes(in.Name, 150)
	if name == "" {
		return nil, invalid("name_required", "patient name is required")
	}
	if in.Age != nil && (*in.Age < 0 || *in.Age > 130) {
		return nil, invalid("invalid_age", "age must be between 0 and 130")
	}
	p := &types.PatientInformation{
		UserID:  owner,
		Name:    name,
		Age:     in.Age,
		Phone:   truncateRunes(in.Phone, 32),
		Address: truncateRunes(in.Address, 500),
	}
	if _, err := ps.repo.Create(dbctx.Context{Ctx: ctx}, p); err != nil {
		return nil, mapRepoErr(err, "patient_not_found")
	}
	return p, nil
}

func (ps *patientService) Get(ctx context.Context, id uuid.UUID) (*types.PatientInformation, error) {
	p, err := ps.repo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, mapRepoErr(err, "patient_not_found")
	}
	if _, err := ownerFor(ctx, &p.UserID); err != nil {
		return nil, err
	}
	return p, nil
}
