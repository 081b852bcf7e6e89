package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/constants"
)

var (
	ErrInvalidSortField  = errors.New("invalid sort field")
	ErrInvalidQueryValue = errors.New("invalid query value")
)

// SortOrder is a validated "field" or "-field" sort request.
type SortOrder struct {
	Column string
	Desc   bool
}

// ParseSort resolves a sort expression against the allowed public field
// names. An empty expression yields nil.
func ParseSort(raw string, allowed map[string]string) (*SortOrder, error) {
	raw = strings.TrimSpace(raw)
	if IsSentinel(raw) {
		return nil, nil
	}

	desc := strings.HasPrefix(raw, "-")
	field := strings.TrimPrefix(raw, "-")

	column, ok := allowed[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSortField, field)
	}

	return &SortOrder{Column: column, Desc: desc}, nil
}

// IsSentinel reports whether a filter value means "no constraint".
func IsSentinel(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, s := range constants.FilterSentinels {
		if value == s {
			return true
		}
	}
	return false
}

// QueryString returns the query value unless it is a sentinel.
func QueryString(c *gin.Context, key string) *string {
	value := strings.TrimSpace(c.Query(key))
	if IsSentinel(value) {
		return nil
	}
	return &value
}

// QueryUint parses an optional numeric filter.
func QueryUint(c *gin.Context, key string) (*uint64, error) {
	raw := QueryString(c, key)
	if raw == nil {
		return nil, nil
	}

	value, err := strconv.ParseUint(*raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQueryValue, key)
	}
	return &value, nil
}

// QueryInt parses an optional integer filter.
func QueryInt(c *gin.Context, key string) (*int, error) {
	raw := QueryString(c, key)
	if raw == nil {
		return nil, nil
	}

	value, err := strconv.Atoi(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQueryValue, key)
	}
	return &value, nil
}

// QueryTime parses an optional RFC 3339 timestamp or YYYY-MM-DD date.
func QueryTime(c *gin.Context, key string) (*time.Time, error) {
	raw := QueryString(c, key)
	if raw == nil {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.DateOnly, *raw); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidQueryValue, key)
}
