package http

import (
	"net/http"

	"github.com/tenderwatch/tender-aggregator/internal/core/domain"
)

type errorBody struct {
	Success        bool   `json:"success"`
	Error          string `json:"error"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

// mapError converts a domain error into its HTTP status plus a JSON body.
// The upstream status taxonomy is deliberate: a document host answering
// 4xx/5xx is a bad gateway here (502), while a transport failure that never
// produced a status is our own failure to fetch (500).
func mapError(err error) (int, errorBody) {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, errorBody{Error: "invalid request"}
	case domain.IsKind(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, errorBody{Error: "record not found"}
	case domain.IsKind(err, domain.ErrUpstreamStatus):
		return http.StatusBadGateway, errorBody{
			Error:          "upstream document host returned an error",
			UpstreamStatus: domain.UpstreamStatus(err),
		}
	case domain.IsKind(err, domain.ErrUpstreamFetch):
		return http.StatusInternalServerError, errorBody{Error: "failed to fetch document"}
	case domain.IsKind(err, domain.ErrStoreQuery):
		return http.StatusInternalServerError, errorBody{Error: "storage unavailable"}
	default:
		return http.StatusInternalServerError, errorBody{Error: "internal error"}
	}
}
