package services

import (
	"github.com/nsp-portal/scholarship-service/internal/models"
	"github.com/nsp-portal/scholarship-service/internal/repositories"
)

func buildApplicationResponse(app *models.ScholarshipApplication) *ApplicationResponse {
	next := app.Status.Next()
	actions := make([]string, len(next))
	for i, n := range next {
		actions[i] = string(n)
	}

	return &ApplicationResponse{
		ScholarshipApplication: app,
		NextActions:            actions,
		DocumentCount:          len(app.Documents),
	}
}

func buildApplicationListResponse(apps []*models.ScholarshipApplication, total int64, filters repositories.ApplicationFilters) *ApplicationListResponse {
	responses := make([]*ApplicationResponse, len(apps))
	for i, app := range apps {
		responses[i] = buildApplicationResponse(app)
	}

	size := filters.Limit
	if size <= 0 {
		size = len(apps)
	}
	page := 1
	if size > 0 {
		page = filters.Offset/size + 1
	}

	return &ApplicationListResponse{
		Applications: responses,
		Total:        total,
		Page:         page,
		Size:         size,
	}
}

func buildRegistrationResponse(profile *models.InstituteProfile) *RegistrationResponse {
	resp := &RegistrationResponse{InstituteProfile: profile}
	switch profile.RegistrationStatus {
	case models.RegistrationSubmitted:
		resp.PendingDesk = "STATE"
	case models.RegistrationStateApproved:
		resp.PendingDesk = "MINISTRY"
	}
	return resp
}
