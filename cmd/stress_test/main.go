package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Lost-update check against a running server: seed an item with a known
// stock, fire concurrent unit withdrawals, and check that exactly
// initialStock of them succeed and the final stock is zero.

const (
	initialStock  = 20
	totalRequests = 50
)

type client struct {
	base   string
	token  string
	teamID int64
	http   *http.Client
}

func (c *client) do(method, path string, body, out any) (int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, err
		}
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.teamID != 0 {
		req.Header.Set("X-Team-ID", fmt.Sprintf("%d", c.teamID))
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func main() {
	base := flag.String("base", "http://localhost:8080", "server base URL")
	flag.Parse()

	c := &client{base: *base, http: &http.Client{Timeout: 10 * time.Second}}

	email := fmt.Sprintf("stress-%d@example.com", time.Now().UnixNano())
	var auth struct {
		Token string `json:"token"`
	}
	if status, err := c.do("POST", "/api/auth/register", map[string]string{
		"name": "stress", "email": email, "password": "stress-pass",
	}, &auth); err != nil || status != http.StatusCreated {
		log.Fatalf("register failed: status=%d err=%v", status, err)
	}
	c.token = auth.Token

	var team struct {
		ID int64 `json:"id"`
	}
	if status, err := c.do("POST", "/api/teams", map[string]string{
		"name": fmt.Sprintf("stress-team-%d", time.Now().UnixNano()),
	}, &team); err != nil || status != http.StatusCreated {
		log.Fatalf("create team failed: status=%d err=%v", status, err)
	}
	c.teamID = team.ID

	var item struct {
		ItemCode string `json:"item_code"`
	}
	if status, err := c.do("POST", "/item", map[string]string{
		"item_name": fmt.Sprintf("stress-item-%d", time.Now().UnixNano()),
	}, &item); err != nil || status != http.StatusCreated {
		log.Fatalf("create item failed: status=%d err=%v", status, err)
	}

	if status, err := c.do("POST", "/transaction", map[string]any{
		"item_code": item.ItemCode, "action": "IN", "quantity": initialStock,
	}, nil); err != nil || status != http.StatusCreated {
		log.Fatalf("seed stock failed: status=%d err=%v", status, err)
	}

	var successCount atomic.Int32
	var failCount atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := c.do("POST", "/transaction", map[string]any{
				"item_code": item.ItemCode, "action": "OUT", "quantity": 1,
			}, nil)
			if err == nil && status == http.StatusCreated {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	var row struct {
		Stock int64 `json:"current_stock"`
	}
	if status, err := c.do("GET", "/inventory/"+item.ItemCode, nil, &row); err != nil || status != http.StatusOK {
		log.Fatalf("read stock failed: status=%d err=%v", status, err)
	}

	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success == initialStock && fail == totalRequests-initialStock {
		fmt.Printf("PASS: Exactly %d withdrawals succeeded, %d rejected\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: Expected %d success/%d fail, got %d/%d\n",
			initialStock, totalRequests-initialStock, success, fail)
	}

	if row.Stock == 0 {
		fmt.Println("PASS: Stock depleted to 0")
	} else {
		fmt.Printf("FAIL: Expected stock 0, got %d\n", row.Stock)
	}
}
