package middleware

import (
	"context"
	"net/http"

	"github.com/mediconnect/mediconnect/internal/model"
)

type resolverFunc func(ctx context.Context, token string) (*model.AuthContext, error)

func (f resolverFunc) Resolve(ctx context.Context, token string) (*model.AuthContext, error) {
	return f(ctx, token)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
