package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/campus-events-api/internal/domain/common"
	"github.com/gravadigital/campus-events-api/internal/domain/profile"
	authmw "github.com/gravadigital/campus-events-api/internal/middleware/auth"
	"github.com/gravadigital/campus-events-api/internal/response"
	"github.com/gravadigital/campus-events-api/internal/validation"
)

// pathUUID parses a UUID path parameter, answering 400 when it is malformed
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := validation.ParseUUID(c.Param(name), name)
	if err != nil {
		response.BadRequestError(c, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// caller returns the profile loaded by the auth middleware
func caller(c *gin.Context) (*profile.Profile, bool) {
	p, ok := authmw.CurrentProfile(c)
	if !ok {
		response.FromError(c, common.ErrProfileMissing)
		return nil, false
	}
	return p, true
}

// bindJSON binds the request body, answering 400 on malformed input
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return false
	}
	return true
}
