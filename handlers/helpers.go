package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mabarril/api-desbravador/finance"
)

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// pathID parses the numeric :id path param.
func pathID(c echo.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	return uint(n), nil
}

// getUserID reads the authenticated user set by the JWT middleware.
func getUserID(c echo.Context) (uint, bool) {
	switch v := c.Get("user_id").(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	default:
		return 0, false
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// financeError maps a finance error kind onto an HTTP response. Unknown
// errors are treated as persistence failures.
func financeError(c echo.Context, err error) error {
	kind := finance.KindOf(err)
	msg := err.Error()
	var fe *finance.Error
	if errors.As(err, &fe) {
		msg = fe.Message
	}

	status := http.StatusInternalServerError
	switch kind {
	case finance.KindValidation, finance.KindOwnershipMismatch:
		status = http.StatusBadRequest
	case finance.KindNotFound:
		status = http.StatusNotFound
	case finance.KindConflict:
		status = http.StatusConflict
	case finance.KindPersistence:
		slog.Error("store failure", "path", c.Path(), "error", err)
	}
	return c.JSON(status, map[string]any{"error": string(kind), "message": msg})
}
