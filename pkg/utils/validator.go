package utils

import (
	"strconv"
)

// ParseIDParam parses a positive integer ID from a path parameter
func ParseIDParam(raw string) (uint64, error) {
	if raw == "" {
		return 0, NewError(CodeInvalidParam, "ID cannot be empty")
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, NewError(CodeInvalidParam, "ID must be a valid integer")
	}

	if id == 0 {
		return 0, NewError(CodeInvalidParam, "ID must be positive")
	}

	return id, nil
}

// ValidatePagination validates page parameters
func ValidatePagination(page, pageSize int) error {
	if page < 1 {
		return NewError(CodeInvalidParam, "page must be positive")
	}
	if pageSize < 1 || pageSize > 100 {
		return NewError(CodeInvalidParam, "pageSize must be between 1 and 100")
	}
	return nil
}
