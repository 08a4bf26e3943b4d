package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"familycheckin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinRequest struct {
	Pin string `json:"pin"`
}

func (p pinRequest) Validate() []string {
	if len(p.Pin) < 4 {
		return []string{"pin must be at least 4 digits"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
		wantMsg    string
	}{
		{name: "valid", body: `{"pin":"2468"}`, wantOK: true},
		{name: "unknown field", body: `{"pin":"2468","extra":1}`, wantStatus: http.StatusBadRequest, wantMsg: "unknown field"},
		{name: "malformed", body: `{"pin":`, wantStatus: http.StatusBadRequest},
		{name: "validation", body: `{"pin":"12"}`, wantStatus: http.StatusBadRequest, wantMsg: "pin must be at least 4 digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			var dest pinRequest

			ok := DecodeAndValidate(rr, req, &dest)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "2468", dest.Pin)
				return
			}
			require.Equal(t, tt.wantStatus, rr.Code)
			var resp APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, ErrCodeBadRequest, resp.Error.Code)
			assert.Contains(t, resp.Error.Message, tt.wantMsg)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSONSuccess(rr, http.StatusCreated, map[string]string{"code": "KQZ"})
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"code":"KQZ"},"error":null}`, rr.Body.String())

	rr = httptest.NewRecorder()
	WriteJSONError(rr, http.StatusBadRequest, ErrCodeAlreadyRedeemed, "Code already redeemed")
	assert.JSONEq(t, `{"data":null,"error":{"code":"already_redeemed","message":"Code already redeemed"}}`, rr.Body.String())
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"", DefaultPage, DefaultPageSize},
		{"page=3&pageSize=10", 3, 10},
		{"page=0&pageSize=-5", DefaultPage, DefaultPageSize},
		{"page=abc&pageSize=1000", DefaultPage, MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/families?"+tt.query, nil)
			got := ParsePagination(req)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantPageSize, got.PageSize)
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	assert.Equal(t, PaginationMeta{Page: 2, PageSize: 20, Total: 45, TotalPages: 3},
		NewPaginationMeta(domain.PaginationParams{Page: 2, PageSize: 20}, 45))
	assert.Equal(t, 0, NewPaginationMeta(domain.PaginationParams{Page: 1}, 10).TotalPages)
	assert.Equal(t, 0, NewPaginationMeta(domain.PaginationParams{Page: 1, PageSize: 20}, 0).TotalPages)
}
