package response

import (
	"encoding/json"
	"net/http"
	"pos/shared/constant"
	"pos/shared/failure"
	"pos/shared/logger"

	"github.com/rs/zerolog/log"
)

// Envelope is the body of every JSON response. Exactly one field is set.
type Envelope struct {
	Data    any     `json:"data,omitempty"`
	Error   *string `json:"error,omitempty"`
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Envelope{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Envelope{Data: payload})
}

// WithCreated answers a successful create with 201 and the stored record.
func WithCreated(writer http.ResponseWriter, payload any) {
	WithJSON(writer, http.StatusCreated, payload)
}

// WithError maps err to its failure code. Server side failures are logged here
// so handlers only need to forward them.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", code).Msg("request failed")
	}

	message := err.Error()
	write(writer, code, Envelope{Error: &message})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, body Envelope) {
	raw, err := json.Marshal(body)
	if err != nil {
		logger.ErrorWithStack(err)
		http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(raw); err != nil {
		logger.ErrorWithStack(err)
	}
}
