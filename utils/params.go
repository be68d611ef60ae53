package utils

import (
	"errors"
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

var errTrailingData = errors.New("request body must contain a single JSON object")

type QueryOptions struct {
	Page  int
	Limit int
}

// Skip is the number of documents before the requested page.
func (q QueryOptions) Skip() int64 {
	return int64((q.Page - 1) * q.Limit)
}

func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return QueryOptions{Page: page, Limit: limit}
}

// ParseBoolQuery returns nil when the parameter is absent or not a boolean.
func ParseBoolQuery(r *http.Request, name string) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
