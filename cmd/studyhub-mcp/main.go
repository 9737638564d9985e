package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// resultRecord mirrors one element of the GET /search response.
type resultRecord struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// errorResponse mirrors the API error body.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func main() {
	apiURL := os.Getenv("STUDYHUB_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiURL = strings.TrimRight(apiURL, "/")
	token := os.Getenv("STUDYHUB_API_TOKEN")

	s := server.NewMCPServer(
		"studyhub",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	// search_resources tool
	searchTool := mcp.NewTool("search_resources",
		mcp.WithDescription("Search the web for learning resources on a topic. Returns the title, link and description of every page that could be fetched."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The topic to find learning resources for"),
		),
		mcp.WithNumber("num_results",
			mcp.Description("Number of search hits to visit (default: 10)"),
		),
	)
	s.AddTool(searchTool, handleSearch(apiURL, token))

	// generate_quiz tool
	quizTool := mcp.NewTool("generate_quiz",
		mcp.WithDescription("Generate a multiple-choice quiz on a topic using the configured LLM."),
		mcp.WithString("topic",
			mcp.Description("Quiz topic (default: 'general knowledge')"),
		),
	)
	s.AddTool(quizTool, handleQuiz(apiURL, token))

	// generate_experiment tool
	experimentTool := mcp.NewTool("generate_experiment",
		mcp.WithDescription("Turn the text of a lab manual into a structured experiment write-up with an aim, an introduction and an article."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Source text describing the experiment"),
		),
	)
	s.AddTool(experimentTool, handleExperiment(apiURL, token))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiGet sends a GET request to the StudyHub API and returns the response
// body. Non-2xx responses are turned into errors carrying the API message.
func apiGet(ctx context.Context, client *http.Client, apiURL, token, path string, params url.Values) ([]byte, error) {
	endpoint := apiURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		if json.Unmarshal(body, &e) == nil {
			if msg := e.Error + e.Message; msg != "" {
				return nil, fmt.Errorf("API returned %d: %s", resp.StatusCode, msg)
			}
		}
		return nil, fmt.Errorf("API returned %d", resp.StatusCode)
	}
	return body, nil
}

func handleSearch(apiURL, token string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}

		params := url.Values{"query": {query}}
		if n := request.GetInt("num_results", 0); n > 0 {
			params.Set("num_results", strconv.Itoa(n))
		}

		body, err := apiGet(ctx, client, apiURL, token, "/search", params)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var records []resultRecord
		if err := json.Unmarshal(body, &records); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if len(records) == 0 {
			return mcp.NewToolResultText("No resources found."), nil
		}

		var sb strings.Builder
		for i, r := range records {
			fmt.Fprintf(&sb, "%d. %s\n   %s\n", i+1, r.Title, r.Link)
			if r.Description != "" {
				fmt.Fprintf(&sb, "   %s\n", r.Description)
			}
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleQuiz(apiURL, token string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params := url.Values{}
		if topic := request.GetString("topic", ""); topic != "" {
			params.Set("topic", topic)
		}

		body, err := apiGet(ctx, client, apiURL, token, "/quiz/generate", params)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var failure struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &failure) == nil && failure.Error != "" {
			return mcp.NewToolResultError(failure.Error), nil
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}

func handleExperiment(apiURL, token string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}

		body, err := apiGet(ctx, client, apiURL, token, "/experiment/generate", url.Values{"text": {text}})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}
