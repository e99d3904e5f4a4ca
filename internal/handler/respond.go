package handler

import (
	"errors"
	"net/http"

	"social-crm/internal/transport/httpdto"
	crm_errors "social-crm/pkg/errors"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP responses. Only the CRUD surface
// uses it; the webhook path never surfaces errors.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, crm_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("not found", "NOT_FOUND"))
	case errors.Is(err, crm_errors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse("already exists", "ALREADY_EXISTS"))
	case errors.Is(err, crm_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid input", "INVALID_REQUEST"))
	case errors.Is(err, crm_errors.ErrUnsupported):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("platform not supported", "UNSUPPORTED_PLATFORM"))
	case errors.Is(err, crm_errors.ErrUpstreamFailure):
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("failed to send message", "UPSTREAM_FAILED"))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", "INTERNAL_ERROR"))
	}
}
