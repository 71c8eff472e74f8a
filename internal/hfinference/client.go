// Package hfinference calls the Hugging Face Inference API for the two hosted
// models the analysis runs on: an abstractive summarizer and a zero-shot
// (NLI) classifier.
package hfinference

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"docarch/internal/classify"
	llmclient "docarch/internal/llmClient"
)

const (
	DefaultBaseURL       = "https://api-inference.huggingface.co"
	DefaultSummaryModel  = "facebook/bart-large-cnn"
	DefaultClassifyModel = "facebook/bart-large-mnli"
	defaultTimeout       = 120 * time.Second
	defaultRetryCount    = 3
	defaultRetryWait     = time.Second
	defaultRetryMaxWait  = 20 * time.Second
)

var ErrEmptyResponse = errors.New("hfinference: empty response")

// Options configures a Client. Zero values select the defaults above.
type Options struct {
	BaseURL       string
	Token         string
	SummaryModel  string
	ClassifyModel string
	Timeout       time.Duration
	// RetryCount is the number of retries on 429/5xx, e.g. while a cold
	// model is loading. Negative disables retries.
	RetryCount int
	RetryWait  time.Duration
}

// Client talks to the Inference API over resty.
type Client struct {
	http          *resty.Client
	summaryModel  string
	classifyModel string
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, errors.New("hfinference: api token is required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.SummaryModel == "" {
		opts.SummaryModel = DefaultSummaryModel
	}
	if opts.ClassifyModel == "" {
		opts.ClassifyModel = DefaultClassifyModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = defaultRetryWait
	}
	retries := opts.RetryCount
	switch {
	case retries == 0:
		retries = defaultRetryCount
	case retries < 0:
		retries = 0
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetAuthToken(opts.Token).
		SetRetryCount(retries).
		SetRetryWaitTime(opts.RetryWait).
		SetRetryMaxWaitTime(max(opts.RetryWait, defaultRetryMaxWait))
	cli.AddRetryCondition(retryCondition)

	return &Client{http: cli, summaryModel: opts.SummaryModel, classifyModel: opts.ClassifyModel}, nil
}

// retryCondition retries network errors, rate limiting and server errors
// (503 is returned while a model is loading).
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// SummaryModel and ClassifyModel name the hosted models after defaults are
// applied.
func (c *Client) SummaryModel() string  { return c.summaryModel }
func (c *Client) ClassifyModel() string { return c.classifyModel }

type apiError struct {
	Error         any     `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

type summarizeRequest struct {
	Inputs     string          `json:"inputs"`
	Parameters summarizeParams `json:"parameters"`
	Options    map[string]bool `json:"options"`
}

type summarizeParams struct {
	MinLength int  `json:"min_length"`
	MaxLength int  `json:"max_length"`
	DoSample  bool `json:"do_sample"`
}

type summarizeItem struct {
	SummaryText string `json:"summary_text"`
}

// Summarize runs the summarization model with deterministic decoding.
func (c *Client) Summarize(ctx context.Context, text string, minLen, maxLen int) (string, error) {
	var out []summarizeItem
	err := c.post(ctx, c.summaryModel, summarizeRequest{
		Inputs:     text,
		Parameters: summarizeParams{MinLength: minLen, MaxLength: maxLen, DoSample: false},
		Options:    map[string]bool{"wait_for_model": true},
	}, &out)
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(out[0].SummaryText), nil
}

type classifyRequest struct {
	Inputs     string          `json:"inputs"`
	Parameters classifyParams  `json:"parameters"`
	Options    map[string]bool `json:"options"`
}

type classifyParams struct {
	CandidateLabels    []string `json:"candidate_labels"`
	HypothesisTemplate string   `json:"hypothesis_template,omitempty"`
	MultiLabel         bool     `json:"multi_label"`
}

// Classify runs zero-shot classification; scores are softmaxed across the
// candidates (multi_label=false).
func (c *Client) Classify(ctx context.Context, text string, labels []string, template string) (classify.Ranking, error) {
	var out classify.Ranking
	err := c.post(ctx, c.classifyModel, classifyRequest{
		Inputs:     text,
		Parameters: classifyParams{CandidateLabels: labels, HypothesisTemplate: template},
		Options:    map[string]bool{"wait_for_model": true},
	}, &out)
	if err != nil {
		return classify.Ranking{}, err
	}
	if len(out.Labels) == 0 {
		return classify.Ranking{}, ErrEmptyResponse
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, model string, body, out any) error {
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(out).
		SetError(&apiErr).
		Post("/models/" + model)
	if err != nil {
		return fmt.Errorf("hfinference %s: %w", model, err)
	}
	if resp.IsError() {
		err := fmt.Errorf("hfinference %s: status %d: %v", model, resp.StatusCode(), errorText(apiErr, resp))
		if resp.StatusCode() != http.StatusTooManyRequests && resp.StatusCode() < http.StatusInternalServerError {
			return llmclient.NewPermanentError(err)
		}
		return err
	}
	return nil
}

func errorText(e apiError, resp *resty.Response) string {
	if e.Error != nil {
		return fmt.Sprint(e.Error)
	}
	return strings.TrimSpace(resp.String())
}
