package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-pessoas/internal/middleware"
	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/observability"
	"go.uber.org/zap"
)

// ErrorResponse is the generic error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// BackendErrorResponse relays a backend failure with the banner to show
type BackendErrorResponse struct {
	models.APIErrorResponse
	Notification *models.Notification `json:"notification,omitempty"`
}

// backendStatus picks the status answered for a failed backend call
func backendStatus(apiErr *models.APIError) int {
	switch apiErr.Kind {
	case models.KindNetwork:
		return http.StatusBadGateway
	case models.KindTimeout:
		return http.StatusGatewayTimeout
	}
	if apiErr.StatusCode >= 400 && apiErr.StatusCode < 600 {
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}

// respondError answers a failed operation. Unauthorized backend answers end the
// session on the client side; other APIErrors are relayed with a notification.
// message overrides the banner text when not empty.
func respondError(c *gin.Context, cookies middleware.SessionCookies, err error, message string) {
	if models.IsKind(err, models.KindUnauthorized) {
		middleware.AbortUnauthorized(c, cookies, err)
		return
	}

	if errors.Is(err, models.ErrPersonNotFound) {
		apiErr := &models.APIError{Kind: models.KindHTTP, StatusCode: http.StatusNotFound, ErrorType: models.ErrTypePersonNotFound, Path: c.Request.URL.Path}
		err = apiErr
	}

	apiErr, ok := models.AsAPIError(err)
	if !ok {
		observability.Logger().Error("unexpected handler error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: models.MsgUnknownError})
		return
	}

	if message == "" {
		message = apiErr.UserMessage()
	}
	if apiErr.Path == "" {
		apiErr.Path = c.Request.URL.Path
	}
	c.JSON(backendStatus(apiErr), BackendErrorResponse{
		APIErrorResponse: apiErr.Response(time.Now().UTC().Format(time.RFC3339)),
		Notification:     models.ErrorNotification(message),
	})
}
