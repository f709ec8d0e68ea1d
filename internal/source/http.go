package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"showreel/internal/domain"
)

// HTTPSource reads items from the portfolio REST API
type HTTPSource struct {
	base       string
	collection string
	client     *http.Client
}

// NewHTTPSource creates a source for the API rooted at base
func NewHTTPSource(base, collection string, timeout time.Duration) *HTTPSource {
	if collection == "" {
		collection = CollectionProjects
	}
	return &HTTPSource{
		base:       strings.TrimRight(base, "/"),
		collection: collection,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Name() string { return "http:" + s.base }

// Fetch GETs every collection the source is configured for
func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.DisplayItem, error) {
	var items []domain.DisplayItem
	if wants(s.collection, domain.KindProject) {
		got, err := s.get(ctx, "/api/projects", domain.KindProject)
		if err != nil {
			return nil, err
		}
		items = append(items, got...)
	}
	if wants(s.collection, domain.KindCertificate) {
		got, err := s.get(ctx, "/api/certificates", domain.KindCertificate)
		if err != nil {
			return nil, err
		}
		items = append(items, got...)
	}
	uniqueKeys(items)
	return items, nil
}

func (s *HTTPSource) get(ctx context.Context, path string, kind domain.ItemKind) ([]domain.DisplayItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("GET %s: %s: %s", path, resp.Status, strings.TrimSpace(string(body)))
	}

	var records []record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("GET %s: failed to decode: %w", path, err)
	}
	return toItems(kind, records), nil
}
