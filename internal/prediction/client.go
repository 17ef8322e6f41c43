// Package prediction is the HTTP client for the external risk-model
// service. The scoring itself is upstream; this package validates the
// input fields, posts them, and bands the returned probability.
package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"
)

type Risk string

const (
	RiskLow    Risk = "Low"
	RiskMedium Risk = "Medium"
	RiskHigh   Risk = "High"
)

// riskFor bands a probability: below 0.3 is Low, below 0.7 Medium,
// else High.
func riskFor(probability float64) Risk {
	switch {
	case probability < 0.3:
		return RiskLow
	case probability < 0.7:
		return RiskMedium
	default:
		return RiskHigh
	}
}

type Result struct {
	Prediction  int     `json:"prediction"`
	Probability float64 `json:"probability"`
	Risk        Risk    `json:"risk"`
}

// Percent renders the probability for display, e.g. 0.82 -> "82%".
func (r Result) Percent() string {
	return fmt.Sprintf("%d%%", int(math.Round(r.Probability*100)))
}

var (
	ErrUnknownCondition = errors.New("unknown condition")

	// ErrUpstream wraps a non-200 answer from the model service.
	ErrUpstream = errors.New("prediction service error")
)

// MissingFieldsError lists required fields absent from a request. No
// HTTP call is made when any field is missing.
type MissingFieldsError struct {
	Condition string
	Missing   []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields for %s: %s", e.Condition, strings.Join(e.Missing, ", "))
}

type Client struct {
	base string
	http *http.Client
}

func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// Predict posts the field values to /predict/{condition} and returns
// the banded result.
func (c *Client) Predict(ctx context.Context, condition string, fields map[string]float64) (*Result, error) {
	required, ok := FieldsFor(condition)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCondition, condition)
	}

	var missing []string
	for _, name := range required {
		if _, present := fields[name]; !present {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Condition: condition, Missing: missing}
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	url := c.base + "/predict/" + condition
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var upstream struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&upstream) == nil && upstream.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrUpstream, upstream.Error)
		}
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var body struct {
		Prediction  int     `json:"prediction"`
		Probability float64 `json:"probability"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &Result{
		Prediction:  body.Prediction,
		Probability: body.Probability,
		Risk:        riskFor(body.Probability),
	}, nil
}
