package util

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// PositiveIntQuery reads an optional query parameter that must be an integer
// of at least 1. An absent parameter yields defaultValue.
func PositiveIntQuery(c *gin.Context, name string, defaultValue int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if val < 1 {
		return 0, fmt.Errorf("%s must be at least 1", name)
	}
	return val, nil
}

// BoolQuery reads an optional boolean query parameter
func BoolQuery(c *gin.Context, name string, defaultValue bool) (bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false", name)
	}
	return val, nil
}

// IDParam parses a positive numeric path parameter
func IDParam(c *gin.Context, name string) (uint, error) {
	val, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || val == 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return uint(val), nil
}
