package routes_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ledger-core/internal/api/routes/testenv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRecoveryEndpoints(t *testing.T) {
	r, _ := testenv.SetupRouter()
	testenv.CreateAccount(t, r)

	for _, path := range []string{"/admin/recovery/pending", "/admin/recovery/applied", "/admin/recovery/cancel"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		require.Equal(t, http.StatusOK, resp.Code, path+": "+resp.Body.String())

		var report map[string]interface{}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &report))
		assert.Equal(t, float64(0), report["recovered"])
	}
}

func TestAdminAgeThreshold(t *testing.T) {
	r, _ := testenv.SetupRouter()

	setReq := httptest.NewRequest(http.MethodPut, "/admin/recovery/age", jsonBody(t, map[string]int64{"age_threshold_ms": 9000}))
	setReq.Header.Set("Content-Type", "application/json")
	setResp := httptest.NewRecorder()
	r.ServeHTTP(setResp, setReq)
	require.Equal(t, http.StatusOK, setResp.Code)

	getReq := httptest.NewRequest(http.MethodGet, "/admin/recovery/age", nil)
	getResp := httptest.NewRecorder()
	r.ServeHTTP(getResp, getReq)
	require.Equal(t, http.StatusOK, getResp.Code)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(getResp.Body.Bytes(), &result))
	assert.Equal(t, float64(9000), result["age_threshold_ms"])
}

func TestAdminReset(t *testing.T) {
	r, _ := testenv.SetupRouter()
	id := testenv.CreateAccount(t, r)
	testenv.Deposit(t, r, id, 1000)

	req := httptest.NewRequest(http.MethodPost, "/admin/reset", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	balanceReq := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/accounts/%d/balance", id), nil)
	balanceResp := httptest.NewRecorder()
	r.ServeHTTP(balanceResp, balanceReq)
	assert.Equal(t, http.StatusNotFound, balanceResp.Code)
}
