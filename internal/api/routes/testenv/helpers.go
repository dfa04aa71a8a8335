package testenv

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	return result
}

// CreateAccount creates a fresh account and returns its id.
func CreateAccount(t *testing.T, r *gin.Engine) int64 {
	t.Helper()
	resp := do(r, http.MethodPost, "/accounts", nil)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	result := decode(t, resp)
	return int64(result["id"].(float64))
}

// GetBalance returns an account's balance, in minor units.
func GetBalance(t *testing.T, r *gin.Engine, id int64) int64 {
	t.Helper()
	resp := do(r, http.MethodGet, "/accounts/"+strconv.FormatInt(id, 10)+"/balance", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	result := decode(t, resp)
	return int64(result["balance"].(float64))
}

// Deposit credits an account and returns the new balance.
func Deposit(t *testing.T, r *gin.Engine, id int64, amount int64) int64 {
	t.Helper()
	resp := do(r, http.MethodPost, "/accounts/"+strconv.FormatInt(id, 10)+"/deposit", map[string]int64{"amount": amount})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	result := decode(t, resp)
	return int64(result["balance"].(float64))
}

// Withdraw debits an account and returns the new balance.
func Withdraw(t *testing.T, r *gin.Engine, id int64, amount int64) int64 {
	t.Helper()
	resp := do(r, http.MethodPost, "/accounts/"+strconv.FormatInt(id, 10)+"/withdraw", map[string]int64{"amount": amount})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	result := decode(t, resp)
	return int64(result["balance"].(float64))
}

// Transfer moves amount from source to destination over HTTP and returns
// the raw recorder so callers can assert on status codes directly.
func Transfer(r *gin.Engine, source, destination, amount int64) *httptest.ResponseRecorder {
	return do(r, http.MethodPost, "/transfers", map[string]int64{
		"source":      source,
		"destination": destination,
		"amount":      amount,
	})
}

// AssertHasError checks that the decoded JSON body carries a non-empty
// error message under the apierr response shape.
func AssertHasError(t *testing.T, result map[string]interface{}) {
	t.Helper()
	message, ok := result["message"]
	if !ok {
		t.Fatal("no error message found in response")
	}
	assert.NotEmpty(t, message)
}
