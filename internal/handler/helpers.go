package handler

import (
	"errors"
	"strconv"
)

func parseUint(value, name string) (uint, error) {
	if value == "" {
		return 0, errors.New("missing " + name)
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + name)
	}
	return uint(parsed), nil
}
