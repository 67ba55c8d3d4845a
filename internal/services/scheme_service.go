package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/nsp-portal/scholarship-service/internal/models"
	"github.com/nsp-portal/scholarship-service/internal/repositories"
	"github.com/nsp-portal/scholarship-service/internal/validator"
)

type schemeService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewSchemeService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) SchemeService {
	return &schemeService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
	}
}

func (s *schemeService) Create(ctx context.Context, req *CreateSchemeRequest, actorID string) (*SchemeResponse, error) {
	s.logger.Info("Creating scheme", "actor_id", actorID, "scheme_name", req.SchemeName)

	if errs := s.validator.GetBusinessValidator().ValidateSchemeCreate(req); len(errs) > 0 {
		return nil, errs
	}

	scheme := &models.ScholarshipScheme{
		SchemeName:           req.SchemeName,
		Description:          req.Description,
		Amount:               req.Amount,
		ApplicationStartDate: req.ApplicationStartDate,
		ApplicationEndDate:   req.ApplicationEndDate,
		IsActive:             true,
	}
	if req.IsActive != nil {
		scheme.IsActive = *req.IsActive
	}
	if req.Criteria != nil {
		raw, err := json.Marshal(req.Criteria)
		if err != nil {
			return nil, fmt.Errorf("failed to encode criteria: %w", err)
		}
		scheme.Criteria = raw
	}

	if err := s.repo.Scheme().Create(ctx, nil, scheme); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, fmt.Errorf("scheme name already in use: %w", err)
		}
		return nil, fmt.Errorf("failed to create scheme: %w", err)
	}

	s.logger.Info("Scheme created", "scheme_id", scheme.ID)
	return s.buildSchemeResponse(scheme)
}

func (s *schemeService) Update(ctx context.Context, id uint, req *UpdateSchemeRequest, actorID string) (*SchemeResponse, error) {
	s.logger.Info("Updating scheme", "scheme_id", id, "actor_id", actorID)

	scheme, err := s.repo.Scheme().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSchemeNotFound
		}
		return nil, fmt.Errorf("failed to get scheme: %w", err)
	}

	if errs := s.validator.GetBusinessValidator().ValidateSchemeUpdate(req, scheme); len(errs) > 0 {
		return nil, errs
	}

	if req.SchemeName != nil {
		scheme.SchemeName = *req.SchemeName
	}
	if req.Description != nil {
		scheme.Description = *req.Description
	}
	if req.Amount != nil {
		scheme.Amount = *req.Amount
	}
	if req.ApplicationStartDate != nil {
		scheme.ApplicationStartDate = *req.ApplicationStartDate
	}
	if req.ApplicationEndDate != nil {
		scheme.ApplicationEndDate = *req.ApplicationEndDate
	}
	if req.IsActive != nil {
		scheme.IsActive = *req.IsActive
	}
	if req.Criteria != nil {
		raw, err := json.Marshal(req.Criteria)
		if err != nil {
			return nil, fmt.Errorf("failed to encode criteria: %w", err)
		}
		scheme.Criteria = raw
	}

	if err := s.repo.Scheme().Update(ctx, nil, scheme); err != nil {
		return nil, fmt.Errorf("failed to update scheme: %w", err)
	}

	return s.buildSchemeResponse(scheme)
}

func (s *schemeService) GetByID(ctx context.Context, id uint) (*SchemeResponse, error) {
	scheme, err := s.repo.Scheme().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSchemeNotFound
		}
		return nil, fmt.Errorf("failed to get scheme: %w", err)
	}
	return s.buildSchemeResponse(scheme)
}

func (s *schemeService) List(ctx context.Context, filters repositories.SchemeFilters) (*SchemeListResponse, error) {
	schemes, total, err := s.repo.Scheme().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemes: %w", err)
	}
	return s.buildSchemeListResponse(schemes, total, filters)
}

// ListOpen returns active schemes whose submission window contains today.
func (s *schemeService) ListOpen(ctx context.Context) (*SchemeListResponse, error) {
	active := true
	now := time.Now()
	return s.List(ctx, repositories.SchemeFilters{
		IsActive: &active,
		OpenOn:   &now,
	})
}

func (s *schemeService) buildSchemeResponse(scheme *models.ScholarshipScheme) (*SchemeResponse, error) {
	criteria, err := parseCriteria(scheme)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scheme criteria: %w", err)
	}
	return &SchemeResponse{
		ScholarshipScheme: scheme,
		IsOpen:            scheme.OpenAt(time.Now()),
		Criteria:          criteria,
	}, nil
}

func (s *schemeService) buildSchemeListResponse(schemes []*models.ScholarshipScheme, total int64, filters repositories.SchemeFilters) (*SchemeListResponse, error) {
	responses := make([]*SchemeResponse, 0, len(schemes))
	for _, scheme := range schemes {
		resp, err := s.buildSchemeResponse(scheme)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}

	size := filters.Limit
	if size <= 0 {
		size = len(schemes)
	}
	page := 1
	if size > 0 {
		page = filters.Offset/size + 1
	}

	return &SchemeListResponse{
		Schemes: responses,
		Total:   total,
		Page:    page,
		Size:    size,
	}, nil
}
