package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func testContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

// The page info echoed back in list responses must be the values the
// query actually applied, including defaults and clamping.
func TestQueryPage(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantPage  int
		wantLimit int
	}{
		{"defaults applied when omitted", "/?", 1, 20},
		{"explicit values kept", "/?page=3&limit=50", 3, 50},
		{"limit clamped to maximum", "/?limit=500", 1, 100},
		{"zero and negative fall back", "/?page=0&limit=-5", 1, 20},
		{"garbage falls back", "/?page=x&limit=y", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := queryPage(testContext(t, tt.target))
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
