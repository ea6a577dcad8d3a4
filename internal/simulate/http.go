package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/sheexliies/ViperDraft/internal/domain/types"
	"github.com/sheexliies/ViperDraft/pkg/logger"
)

// HTTPClient wraps http.Client with JSON helpers for the draft API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for the server at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Do sends a request with an optional JSON body and decodes a JSON reply
// into out when out is non-nil. Replies other than want are errors. A 429
// is retried after a short backoff.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body, out any, want int) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	for try := 0; ; try++ {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		data, err := readResponseBody(resp)
		if err != nil {
			return fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && try < maxRateLimitRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(rateLimitBackoff):
			}
			continue
		}
		if resp.StatusCode != want {
			return fmt.Errorf("%w: %s %s returned %d: %s", ErrUnexpectedStatus, method, path, resp.StatusCode, strings.TrimSpace(string(data)))
		}
		if out == nil || len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
		}
		return nil
	}
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()
	return io.ReadAll(resp.Body)
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")
	if err := client.Do(ctx, http.MethodGet, "/healthz", nil, nil, http.StatusOK); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// runRemote drives the server one draft at a time; a server holds a single
// draft per session.
func runRemote(ctx context.Context, config *Config, seed uint64) ([]RunResult, error) {
	client := NewHTTPClient(config.BaseURL, config.Timeout)
	if err := checkServiceHealth(ctx, client); err != nil {
		return nil, err
	}

	results := make([]RunResult, 0, config.Runs)
	for run := 0; run < config.Runs; run++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("simulation interrupted after %d runs: %w", run, err)
		}
		res := remoteRun(ctx, client, config, seed, run)
		results = append(results, res)
		if config.Verbose {
			logRun(ctx, &res, int64(run+1), config.Runs)
		}
	}
	return results, nil
}

// remoteRun imports a generated pool, loads the draft, queues an auto draft
// and polls until the server has finished solving.
func remoteRun(ctx context.Context, client *HTTPClient, config *Config, seed uint64, run int) RunResult {
	start := time.Now()
	res := RunResult{Run: run}
	poolSrc, _, _ := streams(seed, run)
	candidates := GeneratePool(rand.New(poolSrc), config.poolSize(), config.ScoreMin, config.ScoreMax)

	s := config.Settings
	load := types.LoadRequest{
		TeamsCount:       &s.TeamsCount,
		TeammatesPerTeam: &s.TeammatesPerTeam,
		MinScore:         &s.MinScore,
		MaxScore:         &s.MaxScore,
	}

	var state types.DraftState
	err := client.Do(ctx, http.MethodPost, "/candidates", candidates, nil, http.StatusOK)
	if err == nil {
		err = client.Do(ctx, http.MethodPost, "/draft", load, nil, http.StatusCreated)
	}
	if err == nil {
		err = client.Do(ctx, http.MethodPost, "/draft/solve", map[string]int{"max_attempts": config.MaxAttempts}, nil, http.StatusAccepted)
	}
	if err == nil {
		state, err = waitSolved(ctx, client, config.Timeout)
	}
	if err != nil {
		res.Error = err.Error()
		res.Duration = time.Since(start)
		return res
	}

	res.Success = state.Status.Complete
	res.Attempts = state.Status.Attempts
	if !res.Success {
		res.Error = state.Status.Message
	} else if err := Verify(s, candidates, state.Teams, state.Pool); err != nil {
		res.Violation = true
		res.Error = err.Error()
	}
	res.Scores = teamScores(state.Teams)
	res.Spread = spread(res.Scores)
	res.Duration = time.Since(start)
	return res
}

// waitSolved polls GET /draft until the queued solve has finished.
func waitSolved(ctx context.Context, client *HTTPClient, deadline time.Duration) (types.DraftState, error) {
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		var state types.DraftState
		if err := client.Do(ctx, http.MethodGet, "/draft", nil, &state, http.StatusOK); err != nil {
			return state, err
		}
		if !state.Status.Solving {
			return state, nil
		}
		select {
		case <-ctx.Done():
			return state, fmt.Errorf("waiting for solve: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
