package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/importabr/landed/internal/ncm"
)

func newNCMHandler() *NCMHandler {
	return NewNCMHandler(ncm.NewService(nil, 0, nil))
}

func TestNCMHandler_Search(t *testing.T) {
	h := newNCMHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/ncm/search?q=smartphone", nil)
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results []struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"results"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "85171100", resp.Results[0].Code)
}

func TestNCMHandler_SearchNoMatch(t *testing.T) {
	h := newNCMHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/ncm/search?q=zzzzzzz", nil)
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"results":[]`)
}

func TestNCMHandler_Popular(t *testing.T) {
	h := newNCMHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/ncm/popular", nil)
	rec := httptest.NewRecorder()

	h.Popular(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results []struct {
			Code string `json:"code"`
		} `json:"results"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "85171200", resp.Results[0].Code)
}

func TestNCMHandler_Info(t *testing.T) {
	h := newNCMHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/ncm/8517.12.00", nil)
	req.SetPathValue("code", "8517.12.00")
	rec := httptest.NewRecorder()

	h.Info(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Code     string `json:"code"`
		IIRate   string `json:"ii_rate"`
		ICMSRate string `json:"icms_rate"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "85171200", resp.Code)
	assert.Equal(t, "0.16", resp.IIRate)
	assert.Equal(t, "0.25", resp.ICMSRate)
}

func TestNCMHandler_InfoUnknownCode(t *testing.T) {
	h := newNCMHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/ncm/99999999", nil)
	req.Header.Set("Accept", "application/json")
	req.SetPathValue("code", "99999999")
	rec := httptest.NewRecorder()

	h.Info(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
