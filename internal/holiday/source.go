package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type feedRecord struct {
	Date string `json:"date"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// HTTPSource reads a BrasilAPI-style feed: GET {base}/{year} returning a
// JSON array of {date, name, type}. Only type "national" records count.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource builds a source with a bounded request timeout so a slow
// feed cannot stall booking creation.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) FetchYear(ctx context.Context, year int) ([]Holiday, error) {
	url := fmt.Sprintf("%s/%d", s.baseURL, year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday feed returned status %d", resp.StatusCode)
	}

	var records []feedRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, err
	}

	out := make([]Holiday, 0, len(records))
	for _, r := range records {
		if r.Type != "national" {
			continue
		}
		out = append(out, Holiday{Date: r.Date, Name: r.Name})
	}
	return out, nil
}
