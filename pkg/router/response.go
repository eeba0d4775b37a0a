package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/questx-lab/nftmint/pkg/errorx"
	"github.com/questx-lab/nftmint/pkg/xcontext"
)

type errorResponse struct {
	Error string `json:"error"`
}

func newErrorResponse(err error) errorResponse {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return errorResponse{Error: errx.Message}
	}

	return errorResponse{Error: errorx.Unknown.Message}
}

// handleResponse writes the handler result as-is with status 200, or {"error": message} with
// status 500 for every failure.
func handleResponse() CloserFunc {
	return func(ctx context.Context) {
		w := xcontext.HTTPWriter(ctx)

		if err := xcontext.Error(ctx); err != nil {
			if err := WriteJson(w, http.StatusInternalServerError, newErrorResponse(err)); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot write the error response: %v", err)
			}
			return
		}

		resp := xcontext.Response(ctx)
		if resp == nil {
			resp = struct{}{}
		}

		if err := WriteJson(w, http.StatusOK, resp); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
		}
	}
}

func WriteJson(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
