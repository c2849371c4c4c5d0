package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	inHttp "github.com/Alturino/bagstore/internal/http"
	"github.com/Alturino/bagstore/internal/log"
	"github.com/Alturino/bagstore/internal/otel"
)

var maskedFields = []string{"password", "otp", "cardNumber", "cvv"}

// Logging attaches a request scoped logger and request id to the context. Base
// is the logger requests inherit when the server context carries none.
func Logging(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(inHttp.KEY_HEADER_REQUEST_ID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c, span := otel.Tracer.Start(
				r.Context(),
				"middleware Logging",
				trace.WithAttributes(
					attribute.String(log.KeyRequestID, requestID),
					attribute.String(log.KeyRequestHost, r.Host),
					attribute.String(log.KeyRequestIp, r.RemoteAddr),
					attribute.String(log.KeyRequestMethod, r.Method),
					attribute.String(log.KeyRequestURI, r.RequestURI),
				),
			)
			defer span.End()

			requestBody := map[string]interface{}{}
			if strings.HasPrefix(r.Header.Get(inHttp.KEY_HEADER_CONTENT_TYPE), inHttp.VALUE_HEADER_APPLICATION_JSON) {
				var buffer bytes.Buffer
				tee := io.TeeReader(r.Body, &buffer)
				_ = json.NewDecoder(tee).Decode(&requestBody)
				for _, field := range maskedFields {
					if requestBody[field] != nil {
						requestBody[field] = "****"
					}
				}
				_, _ = io.Copy(&buffer, r.Body)
				r.Body = io.NopCloser(&buffer)
			}

			parent := zerolog.Ctx(c)
			if parent.GetLevel() == zerolog.Disabled {
				parent = &base
			}
			logger := parent.
				With().
				Str(log.KeyRequestID, requestID).
				Dict(log.KeyRequest, zerolog.Dict().
					Str(log.KeyRequestHost, r.Host).
					Str(log.KeyRequestIp, r.RemoteAddr).
					Str(log.KeyRequestMethod, r.Method).
					Str(log.KeyRequestURI, r.RequestURI).
					Any(log.KeyRequestBody, requestBody)).
				Str(log.KeyTag, "middleware Logging").
				Logger()

			c = log.AttachRequestIDToContext(c, requestID)
			c = logger.WithContext(c)
			r = r.WithContext(c)
			w.Header().Set(inHttp.KEY_HEADER_REQUEST_ID, requestID)
			logger.Trace().Msg("attached request value to context")

			next.ServeHTTP(w, r)
		})
	}
}
