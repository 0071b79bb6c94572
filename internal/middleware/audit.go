package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-pessoas/internal/audit"
	"github.com/prefeitura-rio/app-pessoas/internal/observability"
)

const (
	maxAuditBody = 1000
	// maxAuditCapture bounds how much of a request body is buffered for
	// masking; larger bodies reach the handler untouched and are not kept
	maxAuditCapture = 64 << 10
)

// AuditRecorder accepts audit entries
type AuditRecorder interface {
	Record(ctx context.Context, e audit.Entry)
}

// AuditMiddleware records every successful write request.
// Request bodies are kept with sensitive fields masked.
func AuditMiddleware(recorder AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodPost && method != http.MethodPut && method != http.MethodDelete && method != http.MethodPatch {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/v1/health") || strings.HasPrefix(path, "/metrics") || strings.HasPrefix(path, "/v1/cpf") {
			c.Next()
			return
		}

		var (
			body     []byte
			oversize bool
		)
		if c.Request.Body != nil {
			body, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxAuditCapture+1))
			c.Request.Body = readCloser{
				Reader: io.MultiReader(bytes.NewReader(body), c.Request.Body),
				Closer: c.Request.Body,
			}
			if len(body) > maxAuditCapture {
				body, oversize = nil, true
			}
		}

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		action, resource := auditAction(method, path)
		entry := audit.Entry{
			Action:     action,
			Resource:   resource,
			ResourceID: c.Param("id"),
			RequestID:  c.GetString(RequestIDKey),
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Status:     status,
			Metadata: map[string]string{
				"endpoint": path,
				"method":   method,
				"status":   strconv.Itoa(status),
			},
		}
		if s, ok := CurrentSession(c); ok {
			entry.SessionID = s.ID
			entry.UserEmail = observability.MaskEmail(s.User.Email)
		}
		if masked := maskedBody(body); masked != "" {
			entry.Metadata["request_body"] = masked
		}
		if oversize {
			entry.Metadata["request_body"] = "(omitted, larger than " + strconv.Itoa(maxAuditCapture) + " bytes)"
		}

		recorder.Record(c.Request.Context(), entry)
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}

// auditAction maps a write request to its audit action and resource
func auditAction(method, path string) (string, string) {
	trimmed := strings.TrimPrefix(path, "/v1/")
	switch {
	case strings.HasPrefix(trimmed, "auth/login"):
		return audit.ActionLogin, audit.ResourceSession
	case strings.HasPrefix(trimmed, "auth/logout"):
		return audit.ActionLogout, audit.ResourceSession
	}

	resource := strings.SplitN(trimmed, "/", 2)[0]
	if resource == "people" {
		resource = audit.ResourcePerson
	}
	switch method {
	case http.MethodPost:
		return audit.ActionCreate, resource
	case http.MethodDelete:
		return audit.ActionDelete, resource
	default:
		return audit.ActionUpdate, resource
	}
}

// maskedBody re-encodes a JSON object body with sensitive fields masked.
// Non-object bodies are not kept.
func maskedBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	out, err := json.Marshal(observability.MaskSensitiveData(fields))
	if err != nil {
		return ""
	}
	if len(out) > maxAuditBody {
		return string(out[:maxAuditBody]) + "... (truncated)"
	}
	return string(out)
}
