package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/aits/internal/app/models/dto"
	"github.com/yigit/aits/internal/pkg/apperrors"
)

type errorMapping struct {
	target error
	status int
	code   dto.ErrorCode
}

// Order matters: the refined sentinels wrap the generic ones.
var errorMappings = []errorMapping{
	{apperrors.ErrIssueAlreadyResolved, http.StatusConflict, dto.ErrorCodeInvalidTransition},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
	{apperrors.ErrAccountDisabled, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound},
}

// StatusFor returns the HTTP status and error code an error maps to
func StatusFor(err error) (int, dto.ErrorCode) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, dto.ErrorCodeInternalServer
}

// HandleAPIError writes the error envelope matching err. Internal errors are
// reported without their message.
func HandleAPIError(c *gin.Context, err error) {
	status, code := StatusFor(err)

	message := "Internal server error"
	if status != http.StatusInternalServerError {
		if message = apperrors.Message(err); message == "" {
			message = err.Error()
		}
	}

	detail := dto.NewErrorDetail(code, message)
	var custom *apperrors.CustomError
	if status != http.StatusInternalServerError && errors.As(err, &custom) && custom.Details != nil {
		if field, ok := custom.Details["field"].(string); ok {
			detail.WithField(field)
		}
		detail.WithDetails(custom.Details)
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}
