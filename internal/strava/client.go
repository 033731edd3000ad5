// Package strava fetches an athlete's activity summary from the Strava API.
package strava

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/joshuadavidthomas/stravabar/internal/httpclient"
	"github.com/joshuadavidthomas/stravabar/internal/models"
)

// PageSize is the largest page Strava serves for activity lists.
const PageSize = 200

// maxPages bounds pagination in case the API never returns a short page.
const maxPages = 50

const userAgent = "stravabar"

// ErrUnauthorized means Strava rejected the access token.
var ErrUnauthorized = errors.New("strava rejected the credentials; run `stravabar auth`")

// Tokens supplies access tokens. *oauth.TokenSource satisfies it.
type Tokens interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

// Options configures a Client.
type Options struct {
	BaseURL      string
	Sport        string
	RecentMonths int
	HTTP         *httpclient.Client
	Now          func() time.Time
}

// Client implements fetch.Provider against the Strava v3 API.
type Client struct {
	opts   Options
	tokens Tokens
}

// New returns a client. Missing options take the defaults of a fresh
// config.
func New(tokens Tokens, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.strava.com/api/v3"
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Sport == "" {
		opts.Sport = "run"
	}
	if opts.HTTP == nil {
		opts.HTTP = httpclient.New(0)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Client{opts: opts, tokens: tokens}
}

// Fetch builds a fresh snapshot. It makes one request for the athlete,
// then fetches the totals and the recent activities concurrently.
func (c *Client) Fetch(ctx context.Context) (*models.ActivitySnapshot, error) {
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	auth := httpclient.WithBearer(tok.AccessToken)
	now := c.opts.Now()

	var athlete Athlete
	if err := c.get(ctx, "/athlete", nil, &athlete, auth); err != nil {
		return nil, fmt.Errorf("fetching athlete: %w", err)
	}

	var (
		stats Stats
		acts  []Activity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		path := "/athletes/" + strconv.FormatInt(athlete.ID, 10) + "/stats"
		if err := c.get(gctx, path, nil, &stats, auth); err != nil {
			return fmt.Errorf("fetching stats: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// One extra day covers activities whose local date is ahead of UTC.
		after := models.MonthStart(now).AddDate(0, -c.opts.RecentMonths, -1)
		var err error
		acts, err = c.activities(gctx, after, auth)
		if err != nil {
			return fmt.Errorf("fetching activities: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Build(now, c.opts.Sport, athlete, stats, acts, c.opts.RecentMonths), nil
}

func (c *Client) activities(ctx context.Context, after time.Time, auth httpclient.RequestOption) ([]Activity, error) {
	var all []Activity
	for page := 1; page <= maxPages; page++ {
		q := url.Values{
			"after":    {strconv.FormatInt(after.Unix(), 10)},
			"per_page": {strconv.Itoa(PageSize)},
			"page":     {strconv.Itoa(page)},
		}
		var batch []Activity
		if err := c.get(ctx, "/athlete/activities", q, &batch, auth); err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < PageSize {
			return all, nil
		}
	}
	return all, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any, opts ...httpclient.RequestOption) error {
	opts = append(opts, httpclient.WithQuery(q), httpclient.WithUserAgent(userAgent))
	resp, err := c.opts.HTTP.GetJSONCtx(ctx, c.opts.BaseURL+path, out, opts...)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w (%d)", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		if rl, ok := resp.RateLimit(); ok {
			return fmt.Errorf("rate limited by Strava (%s): %s", rl, httpclient.SummarizeBody(resp.Body))
		}
		return fmt.Errorf("rate limited by Strava: %s", httpclient.SummarizeBody(resp.Body))
	case !resp.OK():
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, httpclient.SummarizeBody(resp.Body))
	case resp.JSONErr != nil:
		return fmt.Errorf("invalid response from %s: %w", path, resp.JSONErr)
	}
	return nil
}
