package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"ledger-core/internal/pkg/telemetry"
)

var baseURL = getenv("BASE_URL", "http://localhost:8080")

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func createAccount() (int64, error) {
	start := time.Now()
	resp, err := http.Post(baseURL+"/accounts", "application/json", bytes.NewReader([]byte("{}")))
	duration := time.Since(start)
	status := 0
	if err != nil {
		telemetry.Record("/accounts", status, duration)
		return 0, err
	}
	defer resp.Body.Close()
	status = resp.StatusCode
	telemetry.Record("/accounts", status, duration)
	var data struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, err
	}
	return data.ID, nil
}

func deposit(id int64, amount int64) {
	endpoint := fmt.Sprintf("/accounts/%d/deposit", id)
	body, _ := json.Marshal(map[string]int64{"amount": amount})
	start := time.Now()
	resp, err := http.Post(baseURL+endpoint, "application/json", bytes.NewReader(body))
	duration := time.Since(start)
	status := 0
	if err == nil {
		status = resp.StatusCode
		resp.Body.Close()
	} else {
		log.Printf("deposit error: %v", err)
	}
	telemetry.Record(endpoint, status, duration)
}

func withdraw(id int64, amount int64) {
	endpoint := fmt.Sprintf("/accounts/%d/withdraw", id)
	body, _ := json.Marshal(map[string]int64{"amount": amount})
	start := time.Now()
	resp, err := http.Post(baseURL+endpoint, "application/json", bytes.NewReader(body))
	duration := time.Since(start)
	status := 0
	if err == nil {
		status = resp.StatusCode
		resp.Body.Close()
	} else {
		log.Printf("withdraw error: %v", err)
	}
	telemetry.Record(endpoint, status, duration)
}

func transfer(source, destination int64, amount int64) {
	endpoint := "/transfers"
	body, _ := json.Marshal(map[string]int64{"source": source, "destination": destination, "amount": amount})
	start := time.Now()
	resp, err := http.Post(baseURL+endpoint, "application/json", bytes.NewReader(body))
	duration := time.Since(start)
	status := 0
	if err == nil {
		status = resp.StatusCode
		resp.Body.Close()
	} else {
		log.Printf("transfer error: %v", err)
	}
	telemetry.Record(endpoint, status, duration)
}

func randomOp(ids []int64) {
	switch rand.Intn(3) {
	case 0:
		id := ids[rand.Intn(len(ids))]
		deposit(id, int64(rand.Intn(100)+1))
	case 1:
		id := ids[rand.Intn(len(ids))]
		withdraw(id, int64(rand.Intn(50)+1))
	case 2:
		source := ids[rand.Intn(len(ids))]
		destination := ids[rand.Intn(len(ids))]
		for destination == source {
			destination = ids[rand.Intn(len(ids))]
		}
		transfer(source, destination, int64(rand.Intn(30)+1))
	}
}

func main() {
	const (
		numAccounts = 100
		totalOps    = 10000
		blockSize   = 100
		blockPause  = 100 * time.Millisecond
	)

	ids := make([]int64, 0, numAccounts)
	for i := 0; i < numAccounts; i++ {
		id, err := createAccount()
		if err != nil {
			log.Fatalf("cannot create account %d: %v", i+1, err)
		}
		ids = append(ids, id)
		deposit(id, 1000)
	}

	for sent := 0; sent < totalOps; {
		var wg sync.WaitGroup
		for i := 0; i < blockSize && sent < totalOps; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				randomOp(ids)
			}()
			sent++
		}
		wg.Wait()
		time.Sleep(blockPause)
	}

	for _, m := range telemetry.List() {
		log.Printf("%s status=%d duration=%s", m.Endpoint, m.Status, m.Duration)
	}
}
