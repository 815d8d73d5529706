package handlers

import (
	"errors"
	"strconv"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

func parsePageParams(pageStr, pageSizeStr string) (int64, int64, error) {
	page := int64(1)
	pageSize := int64(defaultPageSize)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errors.New("invalid page")
		}
		page = p
	}

	if pageSizeStr != "" {
		s, err := strconv.ParseInt(pageSizeStr, 10, 64)
		if err != nil || s < 1 {
			return 0, 0, errors.New("invalid pageSize")
		}
		if s > maxPageSize {
			s = maxPageSize
		}
		pageSize = s
	}

	return page, pageSize, nil
}

// computePages returns ceil(total / pageSize) without touching floats.
func computePages(total, pageSize int64) int64 {
	if total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
