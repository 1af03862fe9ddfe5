// Package response holds the JSON envelope every API route answers with.
package response

import (
	"net/http"

	"github.com/yasmngoncalves/PolarisApp/internal"
)

type APIResponse struct {
	Data  interface{}        `json:"data,omitempty"`
	Meta  map[string]any     `json:"meta,omitempty"`
	Error *internal.AppError `json:"error,omitempty"`
}

func Success(data interface{}, meta map[string]any) APIResponse {
	return APIResponse{Data: data, Meta: meta}
}

// Failure builds an error envelope for status. Server errors keep only the generic message.
func Failure(status int, msg string, err error) APIResponse {
	if err != nil && status < http.StatusInternalServerError {
		msg += ": " + err.Error()
	}
	return APIResponse{Error: internal.NewAppError(status, msg)}
}
