package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const defaultPerPage = 10

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// pagination reads page/per_page query parameters and converts them to a
// limit/offset pair. Page numbering starts at 1.
func pagination(r *http.Request) (limit, offset uint64) {
	perPage, err := strconv.ParseUint(r.URL.Query().Get("per_page"), 10, 64)
	if err != nil || perPage == 0 {
		perPage = defaultPerPage
	}

	page, err := strconv.ParseUint(r.URL.Query().Get("page"), 10, 64)
	if err != nil || page == 0 {
		page = 1
	}

	return perPage, (page - 1) * perPage
}
