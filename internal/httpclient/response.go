package httpclient

import (
	"encoding/json"
	"strings"
)

const summaryLimit = 120

// apiError is the error body Strava returns alongside non-2xx statuses.
type apiError struct {
	Message string `json:"message"`
	Errors  []struct {
		Resource string `json:"resource"`
		Field    string `json:"field"`
		Code     string `json:"code"`
	} `json:"errors"`
}

// SummarizeBody returns a one-line description of an error response for
// use in error messages. JSON bodies carrying a "message" are reduced to
// that message and the first field error; anything else is the raw body,
// whitespace-collapsed and cut to summaryLimit runes.
func SummarizeBody(body []byte) string {
	var e apiError
	if json.Unmarshal(body, &e) == nil && e.Message != "" {
		s := e.Message
		if len(e.Errors) > 0 {
			fe := e.Errors[0]
			detail := strings.Join(strings.Fields(fe.Resource+" "+fe.Field+" "+fe.Code), " ")
			if detail != "" {
				s += " (" + detail + ")"
			}
		}
		return clip(s)
	}

	s := strings.Join(strings.Fields(string(body)), " ")
	if s == "" {
		return "empty body"
	}
	return clip(s)
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= summaryLimit {
		return s
	}
	return string(r[:summaryLimit]) + "..."
}
