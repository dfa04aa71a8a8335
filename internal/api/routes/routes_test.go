package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"ledger-core/internal/api/routes/testenv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccount(t *testing.T) {
	r, _ := testenv.SetupRouter()
	id := testenv.CreateAccount(t, r)
	assert.Positive(t, id)

	balance := testenv.GetBalance(t, r, id)
	assert.Equal(t, int64(0), balance)
}

func TestDepositAndWithdraw(t *testing.T) {
	r, _ := testenv.SetupRouter()
	id := testenv.CreateAccount(t, r)

	balance := testenv.Deposit(t, r, id, 5000)
	assert.Equal(t, int64(5000), balance)

	balance = testenv.Withdraw(t, r, id, 1500)
	assert.Equal(t, int64(3500), balance)
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	r, _ := testenv.SetupRouter()
	id := testenv.CreateAccount(t, r)

	body, _ := json.Marshal(map[string]int64{"amount": 1})
	req := httptest.NewRequest(http.MethodPost, "/accounts/"+strconv.FormatInt(id, 10)+"/withdraw", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestTransferMovesFunds(t *testing.T) {
	r, _ := testenv.SetupRouter()
	source := testenv.CreateAccount(t, r)
	destination := testenv.CreateAccount(t, r)
	testenv.Deposit(t, r, source, 10000)

	resp := testenv.Transfer(r, source, destination, 4000)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	assert.Equal(t, int64(6000), testenv.GetBalance(t, r, source))
	assert.Equal(t, int64(4000), testenv.GetBalance(t, r, destination))
}

func TestCloseAccount(t *testing.T) {
	r, _ := testenv.SetupRouter()
	id := testenv.CreateAccount(t, r)

	closedReq := httptest.NewRequest(http.MethodGet, "/accounts/"+strconv.FormatInt(id, 10)+"/closed", nil)
	closedResp := httptest.NewRecorder()
	r.ServeHTTP(closedResp, closedReq)
	require.Equal(t, http.StatusOK, closedResp.Code)

	var before map[string]interface{}
	require.NoError(t, json.Unmarshal(closedResp.Body.Bytes(), &before))
	assert.Equal(t, false, before["closed"])

	closeReq := httptest.NewRequest(http.MethodPost, "/accounts/"+strconv.FormatInt(id, 10)+"/close", nil)
	closeResp := httptest.NewRecorder()
	r.ServeHTTP(closeResp, closeReq)
	require.Equal(t, http.StatusOK, closeResp.Code)

	withdrawBody, _ := json.Marshal(map[string]int64{"amount": 100})
	withdrawReq := httptest.NewRequest(http.MethodPost, "/accounts/"+strconv.FormatInt(id, 10)+"/withdraw", bytes.NewReader(withdrawBody))
	withdrawReq.Header.Set("Content-Type", "application/json")
	withdrawResp := httptest.NewRecorder()
	r.ServeHTTP(withdrawResp, withdrawReq)
	assert.Equal(t, http.StatusConflict, withdrawResp.Code)
}

func TestTransferRejectsSameAccount(t *testing.T) {
	r, _ := testenv.SetupRouter()
	id := testenv.CreateAccount(t, r)

	resp := testenv.Transfer(r, id, id, 100)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestTransferInsufficientBalance(t *testing.T) {
	r, _ := testenv.SetupRouter()
	source := testenv.CreateAccount(t, r)
	destination := testenv.CreateAccount(t, r)

	resp := testenv.Transfer(r, source, destination, 100)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

// TestConcurrentTransfers hammers the same pair of accounts with
// concurrent transfer requests, the way the teacher's own concurrency
// test does, to exercise the 2PC coordinator under concurrent load
// instead of just its happy path.
func TestConcurrentTransfers(t *testing.T) {
	r, _ := testenv.SetupRouter()
	source := testenv.CreateAccount(t, r)
	destination := testenv.CreateAccount(t, r)
	testenv.Deposit(t, r, source, 10000)

	const transfers = 100
	const amount = int64(50)

	var wg sync.WaitGroup
	wg.Add(transfers)
	for i := 0; i < transfers; i++ {
		go func() {
			defer wg.Done()
			testenv.Transfer(r, source, destination, amount)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10000-transfers*amount), testenv.GetBalance(t, r, source))
	assert.Equal(t, int64(transfers*amount), testenv.GetBalance(t, r, destination))
}
