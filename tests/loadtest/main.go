package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
)

var (
	types     = []string{"", "cn", "co", "wh", "st", "ap", "np", "lm", "ct"}
	countries = []string{"", "DE", "FR", "US", "JP", "IT"}
	limits    = []string{"", "recent", "first"}
	columns   = []string{"", "type", "name", "recent_visit", "first_visit", "num_visits", "rating"}
	orders    = []string{"", "asc", "desc"}
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== Travelogue Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if i == 29 {
			fmt.Println("FAILED: server not ready")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Shareable views (GET /view) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doGetView(rng)
	})

	fmt.Println("\n--- Phase 2: Session traffic (controls, navigation, back/forward) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doPostControls(rng)
		case r < 0.55:
			return doPostNavigate(rng)
		case r < 0.70:
			return doPost("/back", http.StatusNotFound)
		case r < 0.80:
			return doPost("/forward", http.StatusNotFound)
		case r < 0.95:
			return doGet("/state")
		default:
			return doGet("/options")
		}
	})

	fmt.Println("\n--- Phase 3: Mixed (80% views, 20% session) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.80 {
			return doGetView(rng)
		}
		return doPostControls(rng)
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.Intn(len(from))]
}

func randomFragment(rng *rand.Rand) string {
	var tokens []string
	if t := pick(rng, types); t != "" {
		tokens = append(tokens, "type:"+t)
	}
	if co := pick(rng, countries); co != "" {
		tokens = append(tokens, "co:"+co)
	}
	if c, o := pick(rng, columns), pick(rng, orders); c != "" && o != "" {
		tokens = append(tokens, o+":"+c)
	}
	if l := pick(rng, limits); l != "" {
		tokens = append(tokens, "limit:"+l)
	}
	switch rng.Intn(4) {
	case 1:
		tokens = append(tokens, fmt.Sprintf("date:=%d", 2005+rng.Intn(20)))
	case 2:
		tokens = append(tokens, fmt.Sprintf("date:+%d-%02d-01", 2005+rng.Intn(20), 1+rng.Intn(12)))
	}
	if len(tokens) == 0 {
		return "./"
	}
	return "#" + strings.Join(tokens, "/")
}

func doGetView(rng *rand.Rand) result {
	return doGetEndpoint("GET /view", "/view?fragment="+url.QueryEscape(randomFragment(rng)))
}

func doGet(path string) result {
	return doGetEndpoint("GET "+path, path)
}

func doGetEndpoint(endpoint, path string) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func doPostControls(rng *rand.Rand) result {
	body := map[string]string{
		"type":    pick(rng, types),
		"country": pick(rng, countries),
		"limit":   pick(rng, limits),
	}
	if c := pick(rng, columns); c != "" {
		body["sort_column"] = c
		body["sort_order"] = pick(rng, orders)
	}
	if rng.Float64() < 0.3 {
		body["timeframe"] = "="
		body["year"] = fmt.Sprintf("%d", 2005+rng.Intn(20))
	}
	return doPostJSON("/controls", body)
}

func doPostNavigate(rng *rand.Rand) result {
	return doPostJSON("/navigate", map[string]string{"fragment": randomFragment(rng)})
}

func doPostJSON(path string, body any) result {
	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+path, "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	endpoint := "POST " + path
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

// doPost treats allowed as success alongside 200.
func doPost(path string, allowed int) result {
	start := time.Now()
	resp, err := httpClient.Post(baseURL+path, "application/json", nil)
	lat := time.Since(start)
	endpoint := "POST " + path
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK && resp.StatusCode != allowed}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
