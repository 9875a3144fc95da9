package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/datahub-backend/internal/domain"
	"github.com/yungbote/datahub-backend/internal/platform/apperr"
	"github.com/yungbote/datahub-backend/internal/requestdata"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError maps the error's kind onto its HTTP status and writes the
// shared envelope.
func RespondError(c *gin.Context, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(apperr.StatusOf(err), ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    apperr.KindOf(err).String(),
		},
	})
}

// AbortError is RespondError for middleware: it stops the handler chain.
func AbortError(c *gin.Context, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(apperr.StatusOf(err), ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    apperr.KindOf(err).String(),
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// PrincipalFrom returns the authenticated user placed in the request context
// by the auth middleware, or nil on unauthenticated routes.
func PrincipalFrom(c *gin.Context) *domain.User {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		return nil
	}
	return rd.Principal
}
