// Package auth holds the gin middleware that turns a bearer token into a
// request-scoped identity and profile. Nothing is cached across requests.
package auth

import (
	"context"
	"errors"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/campus-events-api/internal/auth"
	"github.com/gravadigital/campus-events-api/internal/domain/common"
	"github.com/gravadigital/campus-events-api/internal/domain/profile"
	"github.com/gravadigital/campus-events-api/internal/logger"
	"github.com/gravadigital/campus-events-api/internal/response"
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
)

const (
	identityKey = "identity"
	profileKey  = "profile"
)

// ProfileLookup loads the profile of a verified identity
type ProfileLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
}

// Authenticate verifies the bearer token and stores the identity on the request
func Authenticate(v *auth.Verifier) gin.HandlerFunc {
	log := logger.Auth()

	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.FromError(c, common.ErrUnauthorized)
			return
		}

		id, err := v.Verify(token)
		if err != nil {
			log.Debug("Token rejected", "path", c.Request.URL.Path, "error", err)
			response.FromError(c, common.ErrUnauthorized)
			return
		}

		c.Set(identityKey, id)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// RequireProfile loads the caller's profile. A verified identity without a
// profile is refused; profiles are only created by the provisioning endpoint.
func RequireProfile(profiles ProfileLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			response.FromError(c, common.ErrUnauthorized)
			return
		}

		p, err := profiles.GetByID(c.Request.Context(), id.Subject)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				response.FromError(c, common.ErrProfileMissing)
				return
			}
			response.FromError(c, common.StoreFailure(err))
			return
		}

		c.Set(profileKey, p)
		c.Next()
	}
}

// RequireRole refuses callers whose profile role is not one of roles
func RequireRole(roles ...profile.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentProfile(c)
		if !ok {
			response.FromError(c, common.ErrProfileMissing)
			return
		}
		if !slices.Contains(roles, p.Role) {
			response.FromError(c, common.ErrRoleRequired)
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity set by Authenticate
func CurrentIdentity(c *gin.Context) (*auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*auth.Identity)
	return id, ok
}

// CurrentProfile returns the profile set by RequireProfile
func CurrentProfile(c *gin.Context) (*profile.Profile, bool) {
	v, ok := c.Get(profileKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*profile.Profile)
	return p, ok
}
