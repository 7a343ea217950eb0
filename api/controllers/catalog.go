package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foamwash/foamwash-backend/api/responses"
	"github.com/foamwash/foamwash-backend/internal/catalog"
	pkgerrors "github.com/foamwash/foamwash-backend/pkg/errors"
	"github.com/foamwash/foamwash-backend/pkg/logger"
)

// CatalogList returns every service offering with its pricing inputs.
func CatalogList(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"services":   cat.List(),
			"surcharges": cat.Surcharges(),
		})
	}
}

// CatalogGet returns a single service by its identifier.
func CatalogGet(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		svc, err := cat.Get(chi.URLParam(r, "serviceID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, svc)
	}
}
