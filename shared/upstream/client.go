// Package upstream is the adapter for the content provider's HTTP API. All
// transport, authentication and envelope concerns live here; the rest of
// the system sees only typed records and the single ErrUpstreamUnavailable
// failure mode.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dfryer1193/signage/signage/domain"
)

const defaultTimeout = 20 * time.Second

// Client is a thin bearer-token JSON client for the provider API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// envelope is the provider's response wrapper. A false status is an API
// level failure even when the HTTP status is 200.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) call(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", domain.ErrUpstreamUnavailable, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d from %s", domain.ErrUpstreamUnavailable, res.StatusCode, path)
	}

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: malformed payload from %s: %v", domain.ErrUpstreamUnavailable, path, err)
	}

	if !env.Status {
		return fmt.Errorf("%w: provider reported failure: %s", domain.ErrUpstreamUnavailable, env.Message)
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: malformed data from %s: %v", domain.ErrUpstreamUnavailable, path, err)
	}

	return nil
}

// newsBlock mirrors the /api/get/news payload: promotion items grouped in
// blocks.
type newsBlock struct {
	Promotion []promotion `json:"promotion"`
}

type promotion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	DateStart   string `json:"date_start"`
	DateEnd     string `json:"date_end"`
}

func (c *Client) news(ctx context.Context) ([]newsBlock, error) {
	var blocks []newsBlock
	if err := c.call(ctx, http.MethodGet, "/api/get/news", nil, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

type region struct {
	RegionName string   `json:"outlet_region_name"`
	PosShops   []outlet `json:"pos_shops"`
}

type outlet struct {
	ID     json.Number `json:"id"`
	Name   string      `json:"name"`
	IsOpen bool        `json:"is_open"`
}

type idsRequest struct {
	IDs []int `json:"ids"`
}

func (c *Client) outletRegions(ctx context.Context) ([]region, error) {
	var regions []region
	if err := c.call(ctx, http.MethodPost, "/api/get/outlet/regions", idsRequest{IDs: []int{}}, &regions); err != nil {
		return nil, err
	}
	return regions, nil
}

type sessionImage struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

func (c *Client) orderSessions(ctx context.Context) ([]sessionImage, error) {
	var images []sessionImage
	if err := c.call(ctx, http.MethodPost, "/api/order/session", idsRequest{IDs: []int{}}, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// Outlets implements domain.OutletDirectory.
func (c *Client) Outlets(ctx context.Context) ([]domain.Outlet, error) {
	regions, err := c.outletRegions(ctx)
	if err != nil {
		return nil, err
	}

	var outlets []domain.Outlet
	for _, r := range regions {
		for _, o := range r.PosShops {
			if o.Name == "" {
				continue
			}
			outlets = append(outlets, domain.Outlet{
				ID:         o.ID.String(),
				Name:       o.Name,
				RegionName: r.RegionName,
				IsOpen:     o.IsOpen,
			})
		}
	}
	return outlets, nil
}
