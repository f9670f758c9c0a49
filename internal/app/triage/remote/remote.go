// Package remote calls an external sentiment-inference service.
//
// The service is treated as an untrusted oracle: every failure is logged and
// reported as "unavailable" (ok == false), never as an error. There is one
// attempt per call and no retry.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/adarshgram/internal/app/system/metrics"
	"github.com/dalemusser/adarshgram/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Confidence is reported for every sentiment the remote service supplies.
const Confidence = 0.85

const (
	defaultTimeout  = 5 * time.Second
	maxResponseSize = 1 << 20
)

// Config configures the client. An empty URL disables it.
type Config struct {
	URL           string
	Token         string        // sent as "Authorization: Bearer <token>" when set
	Timeout       time.Duration // per call; defaults to 5s
	RatePerMinute int           // 0 means unlimited
}

// Result is a successful remote classification.
type Result struct {
	Sentiment  string
	Confidence float64
	Label      string  // raw top label as returned by the service
	Score      float64 // raw top score
}

// Client is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
}

// inferenceRequest is the request body.
type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// labelScore is one entry of the ranked response list.
type labelScore struct {
	Label string   `json:"label"`
	Score *float64 `json:"score"`
}

// New builds a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
		log: logger,
	}
	if cfg.RatePerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), cfg.RatePerMinute)
	}
	return c
}

// Enabled reports whether a service URL is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.URL != ""
}

// Close releases idle connections.
func (c *Client) Close() {
	if c != nil {
		c.httpClient.CloseIdleConnections()
	}
}

// Classify asks the service for the sentiment of text. ok is false whenever
// the service could not supply a usable answer.
func (c *Client) Classify(ctx context.Context, text string) (Result, bool) {
	if !c.Enabled() {
		metrics.RemoteCalls.WithLabelValues("disabled").Inc()
		return Result{}, false
	}
	if c.limiter != nil && !c.limiter.Allow() {
		metrics.RemoteCalls.WithLabelValues("rate_limited").Inc()
		c.log.Warn("remote classifier rate limited")
		return Result{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	res, outcome, err := c.call(ctx, text)
	metrics.RemoteLatency.Observe(time.Since(start).Seconds())
	metrics.RemoteCalls.WithLabelValues(outcome).Inc()

	if err != nil {
		c.log.Warn("remote classifier unavailable, using lexicon sentiment",
			zap.String("outcome", outcome),
			zap.Duration("timeout", c.cfg.Timeout),
			zap.Error(err))
		return Result{}, false
	}
	return res, true
}

// call performs the request. outcome is the metrics label for the attempt.
func (c *Client) call(ctx context.Context, text string) (Result, string, error) {
	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return Result{}, "transport_error", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return Result{}, "transport_error", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{}, "timeout", err
		}
		return Result{}, "transport_error", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{}, "timeout", err
		}
		return Result{}, "transport_error", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, "bad_status", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	scores, err := decodeScores(raw)
	if err != nil {
		return Result{}, "bad_payload", err
	}

	top := scores[0]
	for _, s := range scores[1:] {
		if *s.Score > *top.Score {
			top = s
		}
	}

	return Result{
		Sentiment:  sentimentForLabel(top.Label),
		Confidence: Confidence,
		Label:      top.Label,
		Score:      *top.Score,
	}, "ok", nil
}

// decodeScores accepts either [[{label,score}...]] or [{label,score}...].
func decodeScores(raw []byte) ([]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		return validScores(nested[0])
	}
	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return validScores(flat)
}

func validScores(in []labelScore) ([]labelScore, error) {
	if len(in) == 0 {
		return nil, errors.New("empty label list")
	}
	for i, s := range in {
		if s.Label == "" || s.Score == nil {
			return nil, fmt.Errorf("entry %d missing label or score", i)
		}
	}
	return in, nil
}

// sentimentForLabel maps service labels onto sentiment values. Unknown labels
// are neutral.
func sentimentForLabel(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "positive", "pos", "label_2":
		return models.SentimentPositive
	case "negative", "neg", "label_0":
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
