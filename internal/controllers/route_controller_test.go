package controllers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"naulify_agent/internal/apperror"
	"naulify_agent/internal/viewmodel"
)

func TestLoadError_StatusPerOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"superseded", viewmodel.ErrSuperseded, http.StatusConflict},
		{"wrapped superseded", fmt.Errorf("routes: %w", viewmodel.ErrSuperseded), http.StatusConflict},
		{"closed", viewmodel.ErrClosed, http.StatusServiceUnavailable},
		{"cancelled", context.Canceled, http.StatusRequestTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apperror.From(loadError(tt.err))
			if got.HTTPStatus != tt.want {
				t.Fatalf("status = %d, want %d", got.HTTPStatus, tt.want)
			}
		})
	}
}
