package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MetadataClient fetches artwork metadata documents over HTTP.
type MetadataClient struct {
	client *http.Client
}

// NewMetadataClient creates a metadata client with a sane timeout.
func NewMetadataClient() *MetadataClient {
	return &MetadataClient{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch downloads and decodes the metadata document at uri. Documents missing
// a name or image are rejected.
func (m *MetadataClient) Fetch(ctx context.Context, uri string) (*Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("building metadata request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata fetch returned %s", resp.Status)
	}

	var md Metadata
	if err := json.NewDecoder(resp.Body).Decode(&md); err != nil {
		return nil, fmt.Errorf("decoding metadata: %w", err)
	}
	if md.Name == "" || md.Image == "" {
		return nil, fmt.Errorf("metadata at %s is missing name or image", uri)
	}
	return &md, nil
}
