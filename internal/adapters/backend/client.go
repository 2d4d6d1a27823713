package backend

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// Client implements the ports consumed from the admin data service:
// point-to-point routing, itinerary optimization, geocoding, and the
// mapping SDK key.
//
// It coordinates request construction, authentication, and retry with
// backoff for transient failures. The client is safe for concurrent
// use.
type Client struct {
	session *http.Client
	baseURL string
	apiKey  string
}

func NewClient(baseURL, apiKey string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("backend base url is empty")
	}

	return &Client{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}
