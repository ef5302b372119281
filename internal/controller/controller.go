package controller

import (
	"errors"

	"quizbank_backend/internal/service"
	"quizbank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// authFromContext builds the service-layer identity from the claims
// the auth middleware stored.
func authFromContext(c *gin.Context) (service.AuthContext, bool) {
	claims, ok := util.GetUserFromContext(c)
	if !ok {
		return service.AuthContext{}, false
	}
	return service.AuthContext{UserID: claims.UserID, Role: claims.Role}, true
}

// respondServiceError maps the shared sentinel errors onto HTTP
// responses; anything unrecognized is logged as an internal error.
func respondServiceError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, util.ErrNotFound):
		util.NotFound(c, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials), errors.Is(err, util.ErrAccountDisabled):
		util.Unauthorized(c, err.Error())
	case errors.Is(err, util.ErrEmailTaken), errors.Is(err, util.ErrDuplicateCode), errors.Is(err, util.ErrInUse):
		util.Conflict(c, err.Error())
	case errors.Is(err, util.ErrUnsupportedFormat), errors.Is(err, util.ErrNoContent), errors.Is(err, util.ErrInvalidAIResponse):
		util.BadRequest(c, err.Error())
	case errors.Is(err, util.ErrFileTooLarge):
		util.TooLarge(c, err.Error())
	case errors.Is(err, util.ErrExtractionInProgress):
		util.Conflict(c, err.Error())
	case errors.Is(err, util.ErrExternalService):
		util.InternalServerError(c, err.Error())
	default:
		util.LogInternalError(c, action, err)
	}
}
