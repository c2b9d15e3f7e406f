package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"backoffice-service/internal/config"
	"backoffice-service/internal/metrics"
	"backoffice-service/internal/model"
	"backoffice-service/internal/validation"
)

var (
	// ErrNotFound means the upstream answered 404, returned an empty body or is not configured.
	ErrNotFound = errors.New("upstream: not found")
	// ErrUnavailable covers transport failures, unexpected statuses and invalid payloads.
	ErrUnavailable = errors.New("upstream: unavailable")
)

const maxBodyBytes = 10 << 20

// Client fetches entities from the external service. It never retries.
type Client struct {
	http     *http.Client
	token    string
	planURL  string
	groupURL string
	routeURL string
	validate *validator.Validate
	log      zerolog.Logger
}

func New(cfg config.UpstreamConfig, log zerolog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
		token:    cfg.BearerToken,
		planURL:  cfg.PlanURL,
		groupURL: cfg.RouteGroupsURL,
		routeURL: cfg.RoutesURL,
		validate: validation.New(),
		log:      log.With().Str("component", "upstream").Logger(),
	}
}

func (c *Client) Plan(ctx context.Context, id string) (*model.Plan, error) {
	var plan model.Plan
	if err := c.fetch(ctx, "plan", joinPath(c.planURL, id), &plan); err != nil {
		return nil, err
	}
	if err := c.validate.Struct(plan); err != nil {
		return nil, c.invalid("plan", err)
	}
	return &plan, nil
}

func (c *Client) PlansByDateAndUser(ctx context.Context, date, userID string) ([]model.Plan, error) {
	base := c.planURL
	if base != "" {
		query := url.Values{}
		query.Set("date", date)
		query.Set("assignedUserId", userID)
		base = base + "?" + query.Encode()
	}

	var plans []model.Plan
	if err := c.fetch(ctx, "plans_by_date", base, &plans); err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, ErrNotFound
	}
	for i := range plans {
		if err := c.validate.Struct(plans[i]); err != nil {
			return nil, c.invalid("plans_by_date", err)
		}
	}
	return plans, nil
}

func (c *Client) RouteGroup(ctx context.Context, id string) (*model.RouteGroup, error) {
	var group model.RouteGroup
	if err := c.fetch(ctx, "route_group", joinPath(c.groupURL, id), &group); err != nil {
		return nil, err
	}
	if err := c.validate.Struct(group); err != nil {
		return nil, c.invalid("route_group", err)
	}
	return &group, nil
}

func (c *Client) Route(ctx context.Context, groupID, routeID string) (*model.Route, error) {
	var route model.Route
	if err := c.fetch(ctx, "route", joinPath(c.groupURL, groupID, "routes", routeID), &route); err != nil {
		return nil, err
	}
	if err := c.validate.Struct(route); err != nil {
		return nil, c.invalid("route", err)
	}
	return &route, nil
}

func (c *Client) DispatchRoute(ctx context.Context, id int64) (*model.DispatchRoute, error) {
	var route model.DispatchRoute
	if err := c.fetch(ctx, "dispatch_route", joinPath(c.routeURL, strconv.FormatInt(id, 10)), &route); err != nil {
		return nil, err
	}
	if err := c.validate.Struct(route); err != nil {
		return nil, c.invalid("dispatch_route", err)
	}
	return &route, nil
}

func (c *Client) fetch(ctx context.Context, resource, target string, dest interface{}) error {
	if target == "" {
		metrics.ObserveUpstream(resource, "disabled", 0)
		return ErrNotFound
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveUpstream(resource, "error", time.Since(start))
		c.log.Error().Err(err).Str("resource", resource).Msg("upstream request failed")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		metrics.ObserveUpstream(resource, "miss", time.Since(start))
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ObserveUpstream(resource, "error", time.Since(start))
		c.log.Error().Int("status", resp.StatusCode).Str("resource", resource).Msg("upstream returned unexpected status")
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.ObserveUpstream(resource, "error", time.Since(start))
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		metrics.ObserveUpstream(resource, "miss", time.Since(start))
		return ErrNotFound
	}
	if err := json.Unmarshal(body, dest); err != nil {
		metrics.ObserveUpstream(resource, "error", time.Since(start))
		c.log.Error().Err(err).Str("resource", resource).Msg("upstream payload could not be decoded")
		return fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}

	metrics.ObserveUpstream(resource, "hit", time.Since(start))
	return nil
}

func (c *Client) invalid(resource string, err error) error {
	c.log.Error().Err(err).Str("resource", resource).Msg("upstream payload failed validation")
	return fmt.Errorf("%w: invalid payload: %v", ErrUnavailable, err)
}

// joinPath appends escaped segments to base. An empty base yields an empty target.
func joinPath(base string, segments ...string) string {
	if base == "" {
		return ""
	}
	for _, segment := range segments {
		base += "/" + url.PathEscape(segment)
	}
	return base
}
