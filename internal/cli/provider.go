package cli

import (
	"errors"

	"github.com/joshuadavidthomas/stravabar/internal/config"
	"github.com/joshuadavidthomas/stravabar/internal/fetch"
	"github.com/joshuadavidthomas/stravabar/internal/httpclient"
	"github.com/joshuadavidthomas/stravabar/internal/oauth"
	"github.com/joshuadavidthomas/stravabar/internal/strava"
)

// newProvider builds the Strava client for cfg. Tests replace it.
var newProvider = stravaProvider

func stravaProvider(cfg config.Config) (fetch.Provider, error) {
	if cfg.Strava.ClientID == "" || cfg.Strava.ClientSecret == "" {
		return nil, errors.New("no Strava client credentials configured; run `stravabar auth`")
	}
	tok, _, err := oauth.LoadToken(cfg)
	if err != nil {
		return nil, err
	}

	hc := httpclient.New(cfg.Fetch.TimeoutDuration())
	ts := oauth.NewTokenSource(oauth.NewConfig(cfg.Strava), tok, hc.HTTPClient(), nil)
	return strava.New(ts, strava.Options{
		BaseURL:      cfg.Strava.APIURL,
		Sport:        cfg.Strava.Sport,
		RecentMonths: cfg.Fetch.RecentMonths,
		HTTP:         hc,
	}), nil
}

func pipelineConfig(cfg config.Config) fetch.PipelineConfig {
	return fetch.PipelineConfig{
		Timeout: cfg.Fetch.TimeoutDuration(),
		Cache:   config.FileCache{},
	}
}
