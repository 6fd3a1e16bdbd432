package photostore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"campuspass.io/infrastructure/logger"
)

// maxPhotoBytes caps reference photo downloads. Student portraits are small;
// anything larger than this is a misconfigured locator.
const maxPhotoBytes = 10 << 20

// ReferencePhotoStore fetches reference portraits by locator. HTTP and HTTPS
// locators are fetched over the network, everything else is treated as a
// path on the local filesystem.
type ReferencePhotoStore struct {
	client *http.Client
}

func NewReferencePhotoStore() *ReferencePhotoStore {
	return &ReferencePhotoStore{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *ReferencePhotoStore) FetchPhoto(ctx context.Context, locator string) ([]byte, error) {
	if locator == "" {
		return nil, fmt.Errorf("empty photo locator")
	}
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		return s.fetchRemote(ctx, locator)
	}
	return s.fetchLocal(locator)
}

func (s *ReferencePhotoStore) fetchRemote(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building photo request: %w", err)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching reference photo: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		logger.Warning("reference photo fetch returned non-200", logger.LoggerOptions{
			Key:  "status",
			Data: res.StatusCode,
		}, logger.LoggerOptions{
			Key:  "url",
			Data: url,
		})
		return nil, fmt.Errorf("reference photo fetch failed with status %d", res.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading reference photo body: %w", err)
	}
	if len(data) > maxPhotoBytes {
		return nil, fmt.Errorf("reference photo exceeds %d byte limit", maxPhotoBytes)
	}
	return data, nil
}

func (s *ReferencePhotoStore) fetchLocal(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reference photo file: %w", err)
	}
	return data, nil
}
