package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/SaraKachchaf/flowermarketneo4j/pkg/errors"
)

// pathID parses a numeric route parameter such as a product or order id.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "identifiant invalide").
			WithDetails(map[string]any{"param": name})
	}
	return value, nil
}
