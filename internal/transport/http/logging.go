package http

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/devhaven/account-api/internal/domain"
)

const (
	requestBodyLogKey  = "http.request.body.summary"
	responseBodyLogKey = "http.response.body.summary"
	maxLoggedBody      = 2048
	redactedValue      = "[REDACTED]"
)

// Credential material must never reach the log stream, whatever the field
// casing the client used.
var sensitiveFields = []string{"password", "token", "secret", "authorization"}

func registerLogging(e *echo.Echo) {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			userID := "anonymous"
			if user, ok := c.Get(contextUserKey).(*domain.User); ok && user != nil {
				userID = user.ID.String()
			}

			payload := struct {
				Time      string `json:"time"`
				UserUUID  string `json:"user_uuid"`
				LatencyMS int64  `json:"latency_ms"`
				Request   struct {
					Method string      `json:"method"`
					URI    string      `json:"uri"`
					Body   interface{} `json:"body,omitempty"`
				} `json:"request"`
				Response struct {
					Status int         `json:"status"`
					Body   interface{} `json:"body,omitempty"`
					Error  string      `json:"error,omitempty"`
				} `json:"response"`
			}{
				Time:      v.StartTime.Format(time.RFC3339),
				UserUUID:  userID,
				LatencyMS: v.Latency.Milliseconds(),
			}

			payload.Request.Method = v.Method
			payload.Request.URI = v.URI
			if summary := c.Get(requestBodyLogKey); summary != nil {
				payload.Request.Body = summary
			}

			payload.Response.Status = v.Status
			if summary := c.Get(responseBodyLogKey); summary != nil {
				payload.Response.Body = summary
			}
			if v.Error != nil {
				payload.Response.Error = v.Error.Error()
			}

			buf, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			log.Println(string(buf))
			return nil
		},
	}))

	e.Use(middleware.BodyDump(func(c echo.Context, reqBody, resBody []byte) {
		if summary := sanitizeBody(reqBody, c.Request().Header.Get(echo.HeaderContentType)); summary != nil {
			c.Set(requestBodyLogKey, summary)
		}
		if summary := sanitizeBody(resBody, c.Response().Header().Get(echo.HeaderContentType)); summary != nil {
			c.Set(responseBodyLogKey, summary)
		}
	}))
}

// sanitizeBody returns a loggable summary of a request or response body with
// credential fields redacted. Multipart uploads and oversized payloads are
// summarized rather than dumped.
func sanitizeBody(body []byte, contentType string) interface{} {
	if len(body) == 0 {
		return nil
	}

	loweredType := strings.ToLower(strings.TrimSpace(contentType))
	if strings.HasPrefix(loweredType, "multipart/form-data") {
		return map[string]any{"multipart": true, "bytes": len(body)}
	}

	if strings.HasPrefix(loweredType, "application/json") || json.Valid(body) {
		var data interface{}
		if err := json.Unmarshal(body, &data); err == nil {
			return limitSize(sanitizeJSON(data))
		}
	}

	if len(body) > maxLoggedBody {
		return map[string]any{"truncated": true, "bytes": len(body)}
	}
	return string(body)
}

func sanitizeJSON(data interface{}) interface{} {
	switch value := data.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(value))
		for k, v := range value {
			if isSensitiveField(k) {
				out[k] = redactedValue
				continue
			}
			out[k] = sanitizeJSON(v)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(value))
		for i, v := range value {
			out[i] = sanitizeJSON(v)
		}
		return out
	default:
		return value
	}
}

func isSensitiveField(key string) bool {
	lowered := strings.ToLower(key)
	for _, field := range sensitiveFields {
		if strings.Contains(lowered, field) {
			return true
		}
	}
	return false
}

func limitSize(data interface{}) interface{} {
	buf, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	if len(buf) <= maxLoggedBody {
		return data
	}
	return map[string]any{"truncated": true, "bytes": len(buf)}
}
