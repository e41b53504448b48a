package domain

import (
	"errors"
	"fmt"
	"math"
)

// Page is one slice of a larger ordered result.
type Page[T any] struct {
	Items    []T
	Total    int
	Page     int // 1-based
	PageSize int
}

// TotalPages is ceil(Total/PageSize), zero for an empty result.
func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 || p.Total <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// ErrPageRange reports a page number whose row offset cannot be represented.
var ErrPageRange = errors.New("page out of range")

// Offset is the row offset for a 1-based page number. It fails for pages
// below 1 and for pages whose offset would overflow an int.
func Offset(page, size int) (int, error) {
	if page < 1 || size < 1 {
		return 0, ErrPageRange
	}
	if page-1 > math.MaxInt/size {
		return 0, ErrPageRange
	}
	return (page - 1) * size, nil
}

// SortMode names an ordering of the public recipe catalogue.
type SortMode string

const (
	SortTopRated  SortMode = "top-rated"
	SortRandom    SortMode = "random"
	SortRecent    SortMode = "recent"
	SortFavorited SortMode = "favorited"
)

func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(s); m {
	case SortTopRated, SortRandom, SortRecent, SortFavorited:
		return m, nil
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}
