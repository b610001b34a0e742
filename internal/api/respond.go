package api

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/example/ec-shop-core/internal/apperr"
)

// errorBody is the wire shape for every failed request.
type errorBody struct {
	Error apperr.Record `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError normalizes err into a stable error record and writes it with
// the status the record's code maps to.
func respondError(w http.ResponseWriter, logger logrus.FieldLogger, err error) {
	rec := apperr.Normalize(logger, err)
	respondJSON(w, rec.HTTPStatus, errorBody{Error: rec})
}
