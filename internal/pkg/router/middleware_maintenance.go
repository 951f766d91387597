package router

import (
	"net/http"

	"github.com/samber/lo"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/config"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/goerror"
)

func middlewareMaintenance(cfg config.Config) Middleware {
	var endpoints []string
	if cfg != nil {
		endpoints = cfg.GetArray("app.maintenance.endpoints")
	}
	blocked := lo.SliceToMap(endpoints, func(e string) (string, struct{}) { return e, struct{}{} })

	// The list is read once when the router is built.
	return func(next http.Handler) http.Handler {
		if len(blocked) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := blocked[matchedRoutePath(r)]; ok {
				writeError(r.Context(), w, goerror.NewUnavailable("service is under maintenance"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
