package optimalblue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pmehta/ratewatch/internal/config"
	"github.com/pmehta/ratewatch/internal/rates"
)

const defaultSearchURL = "https://quickquote-consumer.optimalblue.com/api/search/GetResults"

// Client talks to the OptimalBlue QuickQuote consumer API.
type Client struct {
	searchURL  string
	clientID   string
	userID     string
	formID     string
	httpClient *http.Client
}

// Config provides the widget identifiers and optional overrides.
type Config struct {
	SearchURL string
	ClientID  string
	UserID    string
	FormID    string
	Timeout   time.Duration
}

// NewClient builds a configured quote API client.
func NewClient(cfg Config) *Client {
	searchURL := cfg.SearchURL
	if searchURL == "" {
		searchURL = defaultSearchURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		searchURL: searchURL,
		clientID:  cfg.ClientID,
		userID:    cfg.UserID,
		formID:    cfg.FormID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchRates posts the loan parameters and returns one RateOption per
// price point of every product group whose name contains, case
// insensitively, at least one of the tracked substrings. A single
// attempt is made; the scheduler owns retries.
func (c *Client) FetchRates(ctx context.Context, params config.LoanParams, tracked []string) ([]rates.RateOption, error) {
	payload := searchRequest{
		ClientID: c.clientID,
		UserID:   c.userID,
		FormID:   c.formID,
		Inputs:   params,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	var out searchResponse
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("rate search: %w", err)
	}

	var options []rates.RateOption
	for _, group := range out.Results.Values {
		name := strings.TrimSpace(group.Name)
		if !matchesTracked(name, tracked) {
			continue
		}
		for _, prod := range group.Products.Values {
			options = append(options, rates.RateOption{
				Product:        name,
				Rate:           prod.Rate,
				APR:            prod.APR,
				MonthlyPayment: prod.MonthlyPayments,
				Points:         prod.Discounts,
				Price:          prod.Price,
			})
		}
	}
	return options, nil
}

func (c *Client) do(req *http.Request, dst any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("quote API %s: %s", resp.Status, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func matchesTracked(name string, tracked []string) bool {
	lower := strings.ToLower(name)
	for _, t := range tracked {
		if strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

type searchRequest struct {
	ClientID string            `json:"clientId"`
	UserID   string            `json:"userId"`
	FormID   string            `json:"formId"`
	Inputs   config.LoanParams `json:"inputs"`
}

// The API wraps every collection in a {"$values": [...]} envelope.
type searchResponse struct {
	Results productGroups `json:"results"`
}

type productGroups struct {
	Values []productGroup `json:"$values"`
}

type productGroup struct {
	Name     string         `json:"name"`
	Products productEntries `json:"products"`
}

type productEntries struct {
	Values []productEntry `json:"$values"`
}

type productEntry struct {
	Rate            *float64 `json:"rate"`
	APR             *float64 `json:"apr"`
	MonthlyPayments *float64 `json:"monthlyPayments"`
	Discounts       *float64 `json:"discounts"`
	Price           *float64 `json:"price"`
}
