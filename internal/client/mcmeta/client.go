package mcmeta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/packmill/packmill/internal/domain/pack"
	"github.com/packmill/packmill/internal/logger"
)

// ErrCatalogUnavailable wraps every failure to obtain the release catalog.
// There is no meaningful fallback: callers must treat it as terminal.
var ErrCatalogUnavailable = errors.New("release catalog unavailable")

// releaseType is the only catalog entry type kept; snapshots and
// pre-releases carry no stable pack format contract.
const releaseType = "release"

// maxSkippedNamed bounds how many skipped versions are named in diagnostics.
const maxSkippedNamed = 5

// catalogEntry mirrors one object of the catalog payload.
type catalogEntry struct {
	// ID is the game version identifier.
	ID string `json:"id"`
	// Type tags the entry: "release", "snapshot", etc.
	Type string `json:"type"`
	// ResourcePackVersion is the pack format; nil when the catalog has no data for it.
	ResourcePackVersion *int `json:"resource_pack_version"`
}

// Client fetches the Minecraft release catalog.
type Client struct {
	// url is the catalog endpoint.
	url string
	// userAgent identifies the tool to the catalog host.
	userAgent string
	// httpClient carries the catalog fetch timeout.
	httpClient *http.Client
}

// NewClient creates a catalog client with the given endpoint and timeout.
func NewClient(url, userAgent string, timeout time.Duration) *Client {
	return &Client{
		url:       url,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchReleases fetches all release versions carrying a pack format.
// Entries that are not releases are ignored; releases without pack format
// data are skipped and reported as a non-fatal diagnostic.
func (c *Client) FetchReleases(ctx context.Context) ([]pack.Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrCatalogUnavailable, err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrCatalogUnavailable, c.url, response.Status)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrCatalogUnavailable, err)
	}

	var entries []catalogEntry
	if err = json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrCatalogUnavailable, err)
	}

	releases := make([]pack.Release, 0, len(entries))

	var skipped []string

	for _, entry := range entries {
		if entry.Type != releaseType {
			continue
		}

		if entry.ID == "" || entry.ResourcePackVersion == nil {
			skipped = append(skipped, entry.ID)
			continue
		}

		releases = append(releases, pack.Release{
			Version:    entry.ID,
			PackFormat: *entry.ResourcePackVersion,
		})
	}

	if len(skipped) > 0 {
		logger.WarnKV(ctx, "Skipped release versions without pack format data",
			"count", len(skipped),
			"versions", summarizeSkipped(skipped))
	}

	logger.InfoKV(ctx, "Fetched Minecraft release versions with resource pack formats",
		"count", len(releases))

	return releases, nil
}

// summarizeSkipped names the first few skipped versions with an ellipsis beyond.
func summarizeSkipped(skipped []string) string {
	if len(skipped) <= maxSkippedNamed {
		return strings.Join(skipped, ", ")
	}

	return strings.Join(skipped[:maxSkippedNamed], ", ") + "..."
}
