package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Offset is an offset/limit window over an ordered collection.
type Offset struct {
	Start int
	Limit int
}

// Next returns the window that follows o.
func (o Offset) Next() Offset {
	return Offset{Start: o.Start + o.Limit, Limit: o.Limit}
}

// Values encodes o as start/limit query parameters.
func (o Offset) Values() url.Values {
	v := url.Values{}
	v.Set("start", strconv.Itoa(o.Start))
	v.Set("limit", strconv.Itoa(o.Limit))
	return v
}

// ParseOffset reads start and limit from a query string. Missing values fall
// back to 0 and DefaultLimit.
func ParseOffset(query url.Values) (Offset, error) {
	o := Offset{Start: 0, Limit: DefaultLimit}

	if s := query.Get("start"); s != "" {
		start, err := strconv.Atoi(s)
		if err != nil || start < 0 {
			return Offset{}, fmt.Errorf("invalid 'start' parameter: must be a non-negative integer")
		}
		o.Start = start
	}

	if s := query.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit <= 0 || limit > MaxLimit {
			return Offset{}, fmt.Errorf("invalid 'limit' parameter: must be between 1 and %d", MaxLimit)
		}
		o.Limit = limit
	}

	return o, nil
}
