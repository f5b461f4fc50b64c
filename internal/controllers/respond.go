package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hifieats/hifi-eats-api/internal/apperrors"
	"github.com/hifieats/hifi-eats-api/internal/models"
	log "github.com/sirupsen/logrus"
)

// respondError maps a service error onto an HTTP status and APIError body.
// Store and format failures are logged server-side and surface as opaque 500s.
func respondError(ctx *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		switch appErr.Kind {
		case apperrors.KindValidation, apperrors.KindPrecondition:
			ctx.JSON(http.StatusBadRequest, models.NewAPIError(appErr.Reason, appErr.Message))
			return
		case apperrors.KindNotFound:
			ctx.JSON(http.StatusNotFound, models.NewAPIError(appErr.Reason, appErr.Message))
			return
		}
	}
	log.WithError(err).Error("Request failed")
	ctx.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Internal server error"))
}

// currentUserID returns the authenticated caller's id from the context.
func currentUserID(ctx *gin.Context) (string, bool) {
	value, exists := ctx.Get("userID")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, "User not authenticated"))
		return "", false
	}
	id, ok := value.(string)
	if !ok || id == "" {
		ctx.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, "Invalid user identity"))
		return "", false
	}
	return id, true
}
