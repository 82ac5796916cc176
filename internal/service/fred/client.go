package fred

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"FinCycle/internal/domain/models"
	drepo "FinCycle/internal/domain/repository"
	"FinCycle/pkg/config"
	apphttp "FinCycle/pkg/http"
	"FinCycle/pkg/util"

	"github.com/shopspring/decimal"
)

// missingValue is how the provider marks a date without data.
const missingValue = "."

// ErrMalformedPayload is returned when the provider answers 2xx with data that cannot be read.
var ErrMalformedPayload = errors.New("malformed observations payload")

type observation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type observationsResponse struct {
	Observations []observation `json:"observations"`
}

// Client implements ObservationSource against the FRED observations endpoint.
type Client struct {
	apiKey  string
	baseURL string
	limit   int
	http    *apphttp.Client
}

var _ drepo.ObservationSource = (*Client)(nil)

// New creates a FRED client from configuration. hc may be nil.
func New(cfg config.FRED, hc *apphttp.Client) *Client {
	if hc == nil {
		hc = apphttp.NewClient(apphttp.WithTimeout(cfg.Timeout))
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limit:   cfg.Limit,
		http:    hc,
	}
}

// Validate reports a missing API key.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.apiKey) == "" {
		return &models.ConfigError{Field: "fred.api_key", Message: "FRED API key is not configured"}
	}
	return nil
}

// Observations returns the latest observations of seriesID, newest first.
func (c *Client) Observations(ctx context.Context, seriesID string) ([]models.Observation, error) {
	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", c.apiKey)
	q.Set("file_type", "json")
	q.Set("sort_order", "desc")
	if c.limit > 0 {
		q.Set("limit", strconv.Itoa(c.limit))
	}

	var resp observationsResponse
	err := c.http.GetJSON(ctx, &apphttp.RequestOptions{
		URL:         c.baseURL + "/series/observations",
		QueryParams: q,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return decode(resp.Observations)
}

func decode(raw []observation) ([]models.Observation, error) {
	out := make([]models.Observation, 0, len(raw))
	for _, o := range raw {
		date, ok := util.ParseDate(o.Date)
		if !ok {
			return nil, fmt.Errorf("%w: bad date %q", ErrMalformedPayload, o.Date)
		}
		v := strings.TrimSpace(o.Value)
		if v == missingValue || v == "" {
			out = append(out, models.Observation{Date: date})
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("%w: bad value %q on %s", ErrMalformedPayload, o.Value, o.Date)
		}
		f := d.InexactFloat64()
		out = append(out, models.Observation{Date: date, Value: &f})
	}
	return out, nil
}
