package casdoor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/redis/go-redis/v9"

	"github.com/nsp-portal/scholarship-service/internal/models"
	"github.com/nsp-portal/scholarship-service/internal/repositories"
)

// CasdoorConfig holds the configuration for Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

// UserCasdoor is the identity-service read model. Portal accounts live in
// Casdoor; only (id, role) and a few display fields are read here.
type UserCasdoor struct {
	client *casdoorsdk.Client
	redis  *redis.Client
	config CasdoorConfig

	cachePrefix string
	cacheTTL    time.Duration
}

func NewUserCasdoor(config CasdoorConfig, redisClient *redis.Client) repositories.UserRepository {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &UserCasdoor{
		client:      client,
		redis:       redisClient,
		config:      config,
		cachePrefix: "user:",
		cacheTTL:    15 * time.Minute,
	}
}

func (u *UserCasdoor) getCacheKey(key string) string {
	return fmt.Sprintf("%s%s", u.cachePrefix, key)
}

func (u *UserCasdoor) getUserFromCache(ctx context.Context, key string) (*models.User, error) {
	if u.redis == nil {
		return nil, nil // Cache not available
	}

	cacheKey := u.getCacheKey(key)
	data, err := u.redis.Get(ctx, cacheKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Not found in cache
		}
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached user: %w", err)
	}

	return &user, nil
}

func (u *UserCasdoor) setUserCache(ctx context.Context, key string, user *models.User) error {
	if u.redis == nil {
		return nil
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user for cache: %w", err)
	}

	cacheKey := u.getCacheKey(key)
	return u.redis.Set(ctx, cacheKey, data, u.cacheTTL).Err()
}

// convertCasdoorUserToModel converts a Casdoor user to the internal model.
func (u *UserCasdoor) convertCasdoorUserToModel(casdoorUser *casdoorsdk.User) *models.User {
	if casdoorUser == nil {
		return nil
	}

	var createdAt, updatedAt time.Time
	if casdoorUser.CreatedTime != "" {
		createdAt, _ = time.Parse(time.RFC3339, casdoorUser.CreatedTime)
	}
	if casdoorUser.UpdatedTime != "" {
		updatedAt, _ = time.Parse(time.RFC3339, casdoorUser.UpdatedTime)
	}

	return &models.User{
		ID:            casdoorUser.Id,
		FullName:      casdoorUser.DisplayName,
		Email:         casdoorUser.Email,
		Role:          MapCasdoorRole(casdoorUser.Type),
		State:         casdoorUser.Region,
		EmailVerified: casdoorUser.EmailVerified,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}

// MapCasdoorRole maps the Casdoor user type onto a portal role. Unknown
// types default to STUDENT, the least privileged role.
func MapCasdoorRole(casdoorType string) models.UserRole {
	switch strings.ToLower(casdoorType) {
	case "institute", "school", "college":
		return models.RoleInstitute
	case "state-officer", "state_officer", "state":
		return models.RoleStateOfficer
	case "ministry", "ministry-officer":
		return models.RoleMinistry
	default:
		return models.RoleStudent
	}
}

func (u *UserCasdoor) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if cached, err := u.getUserFromCache(ctx, fmt.Sprintf("id:%s", userID)); err == nil && cached != nil {
		return cached, nil
	}

	casdoorUser, err := u.client.GetUserByUserId(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, repositories.ErrNotFound
	}

	user := u.convertCasdoorUserToModel(casdoorUser)
	if err := u.setUserCache(ctx, fmt.Sprintf("id:%s", userID), user); err != nil {
		// Cache failures are not fatal for reads
		_ = err
	}

	return user, nil
}

func (u *UserCasdoor) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if cached, err := u.getUserFromCache(ctx, fmt.Sprintf("email:%s", email)); err == nil && cached != nil {
		return cached, nil
	}

	casdoorUser, err := u.client.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, repositories.ErrNotFound
	}

	user := u.convertCasdoorUserToModel(casdoorUser)
	if err := u.setUserCache(ctx, fmt.Sprintf("email:%s", email), user); err != nil {
		_ = err
	}

	return user, nil
}
