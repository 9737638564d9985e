package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
)

// CLI flags
var (
	apiURL     = flag.String("api-url", "http://localhost:8080", "StudyHub API base URL")
	token      = flag.String("token", "", "Bearer token for authenticated requests")
	runs       = flag.Int("runs", 3, "Number of runs per query")
	numResults = flag.Int("num-results", 10, "num_results sent with every search")
	output     = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// Queries covering short, long and niche topics.
var testQueries = []struct {
	Label string
	Query string
}{
	{"Short", "photosynthesis"},
	{"Phrase", "binary search trees"},
	{"Long", "how does the krebs cycle produce atp"},
	{"Code", "golang goroutines"},
	{"Niche", "ohm's law lab experiment"},
}

type resultRecord struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// --- Benchmark result types ---

type runResult struct {
	Run        int    `json:"run"`
	LatencyMs  int64  `json:"latency_ms"`
	Results    int    `json:"results"`
	NoTitle    int    `json:"no_title"`
	StatusCode int    `json:"status_code"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

type queryAverages struct {
	LatencyMs float64 `json:"latency_ms"`
	Results   float64 `json:"results"`
	YieldPct  float64 `json:"yield_percent"`
}

type queryResult struct {
	Query    string         `json:"query"`
	Label    string         `json:"label"`
	Runs     []runResult    `json:"runs"`
	Averages *queryAverages `json:"averages,omitempty"`
}

type benchmarkReport struct {
	Timestamp    string        `json:"timestamp"`
	APIURL       string        `json:"api_url"`
	RunsPerQuery int           `json:"runs_per_query"`
	NumResults   int           `json:"num_results"`
	P50LatencyMs int64         `json:"p50_latency_ms"`
	P95LatencyMs int64         `json:"p95_latency_ms"`
	Results      []queryResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== StudyHub Search Benchmark ===")
	fmt.Printf("API URL:      %s\n", *apiURL)
	fmt.Printf("Runs/query:   %d\n", *runs)
	fmt.Printf("num_results:  %d\n", *numResults)
	fmt.Printf("Output:       %s\n", *output)
	fmt.Println()

	// Quick connectivity check.
	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		fmt.Fprintf(os.Stderr, "Make sure StudyHub is running (e.g. go run ./cmd/studyhub)\n")
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		APIURL:       *apiURL,
		RunsPerQuery: *runs,
		NumResults:   *numResults,
	}

	var latencies []int64
	for _, t := range testQueries {
		fmt.Printf("Benchmarking [%s] %q ...\n", t.Label, t.Query)
		qr := queryResult{Query: t.Query, Label: t.Label}

		for i := 1; i <= *runs; i++ {
			fmt.Printf("  Run %d/%d ... ", i, *runs)
			rr := benchmarkQuery(t.Query, i)
			if rr.Success {
				fmt.Printf("OK  %dms  %d/%d results\n", rr.LatencyMs, rr.Results, *numResults)
				latencies = append(latencies, rr.LatencyMs)
			} else {
				fmt.Printf("FAILED: %s\n", rr.Error)
			}
			qr.Runs = append(qr.Runs, rr)
		}

		qr.Averages = computeAverages(qr.Runs, *numResults)
		report.Results = append(report.Results, qr)
		fmt.Println()
	}

	report.P50LatencyMs = percentile(latencies, 50)
	report.P95LatencyMs = percentile(latencies, 95)

	printTable(report)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func benchmarkQuery(query string, run int) runResult {
	rr := runResult{Run: run}

	params := url.Values{
		"query":       {query},
		"num_results": {strconv.Itoa(*numResults)},
	}
	req, err := http.NewRequest(http.MethodGet, *apiURL+"/search?"+params.Encode(), nil)
	if err != nil {
		rr.Error = fmt.Sprintf("request error: %v", err)
		return rr
	}
	if *token != "" {
		req.Header.Set("Authorization", "Bearer "+*token)
	}

	client := &http.Client{Timeout: 90 * time.Second}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()
	rr.StatusCode = resp.StatusCode

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		rr.Error = fmt.Sprintf("status %d: %s", resp.StatusCode, e.Error)
		return rr
	}

	var records []resultRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		rr.Error = fmt.Sprintf("decode error: %v", err)
		return rr
	}
	rr.LatencyMs = time.Since(start).Milliseconds()

	rr.Success = true
	rr.Results = len(records)
	for _, r := range records {
		if r.Title == "No title available" {
			rr.NoTitle++
		}
	}
	return rr
}

func computeAverages(runs []runResult, requested int) *queryAverages {
	var successCount int
	var avg queryAverages

	for _, r := range runs {
		if !r.Success {
			continue
		}
		successCount++
		avg.LatencyMs += float64(r.LatencyMs)
		avg.Results += float64(r.Results)
	}

	if successCount == 0 {
		return nil
	}

	n := float64(successCount)
	avg.LatencyMs /= n
	avg.Results /= n
	if requested > 0 {
		avg.YieldPct = avg.Results / float64(requested) * 100
	}
	return &avg
}

func percentile(values []int64, p int) int64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]int64(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := (len(sorted)*p + 99) / 100
	if idx < 1 {
		idx = 1
	}
	return sorted[idx-1]
}

func printTable(report benchmarkReport) {
	fmt.Println(strings.Repeat("─", 85))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Query\tAvg Latency\tAvg Results\tYield\n")
	fmt.Fprintf(w, "─────\t───────────\t───────────\t─────\n")

	for _, r := range report.Results {
		if r.Averages == nil {
			fmt.Fprintf(w, "%s\tFAILED\t-\t-\n", truncate(r.Query, 40))
			continue
		}
		fmt.Fprintf(w, "%s\t%dms\t%.1f\t%.0f%%\n",
			truncate(r.Query, 40),
			int64(r.Averages.LatencyMs),
			r.Averages.Results,
			r.Averages.YieldPct,
		)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 85))
	fmt.Printf("p50 latency: %dms   p95 latency: %dms\n", report.P50LatencyMs, report.P95LatencyMs)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
