package handler

import (
	"strconv"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/auth"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/repository"
)

// ListResponse is the standard shape for paginated collections.
type ListResponse struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// claimsFrom extracts the validated JWT claims the echo-jwt middleware
// stored on the context.
func claimsFrom(c echo.Context) (*auth.Claims, bool) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, false
	}
	claims, ok := token.Claims.(*auth.Claims)
	return claims, ok
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// queryPage parses the page/limit query parameters and clamps them, so
// the values echoed back in ListResponse are the ones actually applied.
func queryPage(c echo.Context) (int, int) {
	return repository.NormalizePage(queryInt(c, "page", 1), queryInt(c, "limit", 0))
}

// queryInt parses an integer query parameter, falling back to def.
func queryInt(c echo.Context, name string, def int) int {
	if v := c.QueryParam(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
