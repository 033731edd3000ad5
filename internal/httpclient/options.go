package httpclient

import (
	"net/http"
	"net/url"
)

// WithHeader sets a request header. An empty value removes it.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		if value == "" {
			r.Header.Del(key)
			return
		}
		r.Header.Set(key, value)
	}
}

// WithBearer authorizes the request with an OAuth access token.
func WithBearer(token string) RequestOption {
	return WithHeader("Authorization", "Bearer "+token)
}

func WithUserAgent(ua string) RequestOption {
	return WithHeader("User-Agent", ua)
}

// WithQuery merges q into the request URL's query, replacing keys that
// are already present.
func WithQuery(q url.Values) RequestOption {
	return func(r *http.Request) {
		if len(q) == 0 {
			return
		}
		merged := r.URL.Query()
		for k, vs := range q {
			merged[k] = vs
		}
		r.URL.RawQuery = merged.Encode()
	}
}
