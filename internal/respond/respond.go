// Package respond writes the uniform success/error envelope every endpoint
// returns and maps error kinds to HTTP status codes.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/recipehub/recipe-service/internal/apperrors"
	"github.com/sirupsen/logrus"
)

type successEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Kind    string              `json:"kind"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// Success writes a success envelope with the given status and payload.
func Success(w http.ResponseWriter, log *logrus.Logger, status int, data interface{}) {
	write(w, log, status, successEnvelope{Success: true, Data: data})
}

// Error converts any error into the error envelope. Unhandled errors are
// logged with their cause; the client only ever sees the generic message.
func Error(w http.ResponseWriter, log *logrus.Logger, err error) {
	appErr := apperrors.From(err)
	if appErr.Kind == apperrors.KindUnhandled {
		log.Errorf("Unhandled error: %v", err)
	}
	write(w, log, apperrors.HTTPStatus(appErr.Kind), errorEnvelope{
		Error: errorBody{
			Kind:    string(appErr.Kind),
			Message: appErr.Message,
			Fields:  appErr.Fields,
		},
	})
}

func write(w http.ResponseWriter, log *logrus.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}
