package http

import (
	"net/http"
	"strconv"
	"strings"

	"wallet/internal/core"
)

// HeaderUserID carries the tenant, set by the upstream gateway.
const HeaderUserID = "X-User-ID"

func userID(r *http.Request) (int64, error) {
	v := strings.TrimSpace(r.Header.Get(HeaderUserID))
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, errMissingUser
	}
	return id, nil
}

func requiredDate(r *http.Request, name string) (core.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return core.Date{}, &paramError{param: name, reason: "is required"}
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, &paramError{param: name, reason: "must be a YYYY-MM-DD date"}
	}
	return d, nil
}

func requiredInt(r *http.Request, name string) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, &paramError{param: name, reason: "is required"}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &paramError{param: name, reason: "must be an integer"}
	}
	return n, nil
}

type rangeQuery struct {
	user        int64
	from, to    core.Date
	granularity core.Granularity
}

// parseRange reads the tenant, date_from, date_to and group_by. A bad
// group_by yields core.ErrInvalidGranularity.
func parseRange(r *http.Request) (rangeQuery, error) {
	var q rangeQuery
	var err error
	if q.user, err = userID(r); err != nil {
		return q, err
	}
	if q.from, err = requiredDate(r, "date_from"); err != nil {
		return q, err
	}
	if q.to, err = requiredDate(r, "date_to"); err != nil {
		return q, err
	}
	if q.granularity, err = core.ParseGranularity(r.URL.Query().Get("group_by")); err != nil {
		return q, err
	}
	return q, nil
}
