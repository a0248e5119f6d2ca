package util

import (
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MustParseUint returns 0 when s is not an unsigned integer.
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParamUint reads a positive integer path parameter.
func ParamUint(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, NewValidationError(name, "must be a positive integer")
	}
	return uint(id), nil
}

// QueryUintPtr reads an optional positive integer query parameter.
func QueryUintPtr(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return nil, NewValidationError(name, "must be a positive integer")
	}
	v := uint(id)
	return &v, nil
}

// UniqueUints returns ids sorted and without duplicates.
func UniqueUints(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DiffUints returns the elements of a that are not in b.
func DiffUints(a, b []uint) []uint {
	skip := make(map[uint]struct{}, len(b))
	for _, id := range b {
		skip[id] = struct{}{}
	}
	var out []uint
	for _, id := range a {
		if _, ok := skip[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// SameUintSet reports whether a and b hold the same elements, ignoring order and repeats.
func SameUintSet(a, b []uint) bool {
	a, b = UniqueUints(a), UniqueUints(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// PageParams reads page/limit query parameters, clamped to sane bounds.
func PageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	if err != nil || page < 1 {
		page = DefaultPage
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// QueryBoolPtr reads an optional boolean query parameter.
func QueryBoolPtr(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, NewValidationError(name, "must be true or false")
	}
	return &v, nil
}
