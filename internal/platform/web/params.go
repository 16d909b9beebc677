// Package web holds small request helpers shared by the domain handlers.
package web

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ParseID reads a positive integer path parameter.
func ParseID(c echo.Context, name string) (int64, error) {
	return parsePositive(c.Param(name), name)
}

// QueryID reads an optional positive integer query parameter. ok is false
// when the parameter is absent.
func QueryID(c echo.Context, name string) (id int64, ok bool, err error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, false, nil
	}
	id, err = parsePositive(raw, name)
	return id, err == nil, err
}

func parsePositive(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// List returns items, or an empty slice so it encodes as [] rather than null.
func List[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// Message is the {"message": ...} body of delete and status responses.
func Message(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, map[string]string{"message": msg})
}
