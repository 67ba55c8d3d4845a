package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nsp-portal/scholarship-service/internal/models"
	"github.com/nsp-portal/scholarship-service/internal/repositories"
)

// parseApplicationFilters reads listing filters from the query string.
// Identity-bound filters (student, institute, jurisdiction) are applied by
// the service layer, never from the query.
func parseApplicationFilters(c *gin.Context) repositories.ApplicationFilters {
	var filters repositories.ApplicationFilters

	if v := c.Query("status"); v != "" {
		status := models.ApplicationStatus(v)
		if status.Valid() {
			filters.Status = &status
		}
	}
	if v := c.Query("scheme_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			schemeID := uint(id)
			filters.SchemeID = &schemeID
		}
	}
	if v := c.Query("date_from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filters.DateFrom = &t
		}
	}
	if v := c.Query("date_to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filters.DateTo = &t
		}
	}

	filters.Limit = parseIntQuery(c, "limit", 20)
	filters.Offset = parseIntQuery(c, "offset", 0)
	filters.SortBy = c.Query("sort_by")
	filters.SortOrder = c.Query("sort_order")

	return filters
}

func parseSchemeFilters(c *gin.Context) repositories.SchemeFilters {
	var filters repositories.SchemeFilters

	if v := c.Query("is_active"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filters.IsActive = &b
		}
	}
	if v := c.Query("open_on"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filters.OpenOn = &t
		}
	}

	filters.Limit = parseIntQuery(c, "limit", 20)
	filters.Offset = parseIntQuery(c, "offset", 0)
	filters.SortBy = c.Query("sort_by")
	filters.SortOrder = c.Query("sort_order")

	return filters
}

func parseRegistrationFilters(c *gin.Context) repositories.RegistrationFilters {
	var filters repositories.RegistrationFilters

	if v := c.Query("status"); v != "" {
		status := models.RegistrationStatus(v)
		switch status {
		case models.RegistrationSubmitted, models.RegistrationStateApproved,
			models.RegistrationActive, models.RegistrationRejected:
			filters.Status = &status
		}
	}

	filters.Limit = parseIntQuery(c, "limit", 20)
	filters.Offset = parseIntQuery(c, "offset", 0)

	return filters
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
