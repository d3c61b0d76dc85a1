package modrinth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/packmill/packmill/internal/domain/pack"
	"github.com/packmill/packmill/internal/logger"
)

const (
	// metadataPartName is the multipart field carrying the version metadata.
	metadataPartName = "data"
	// filePartName is the multipart field carrying the archive.
	filePartName = "file"
	// archiveContentType is the declared content type of the uploaded archive.
	archiveContentType = "application/zip"
	// releaseChannel is the only channel this tool publishes to.
	releaseChannel = "release"
	// maxErrorDetail truncates registry error bodies for display.
	maxErrorDetail = 200
	// defaultBurst allows short bursts above the sustained request rate.
	defaultBurst = 2
)

var (
	// errBadHTTPStatus flags unexpected registry responses.
	errBadHTTPStatus = errors.New("unexpected http status")
	// errEmptyProjectID flags a lookup response without a usable project id.
	errEmptyProjectID = errors.New("project response carries no id")
)

// Client talks to the Modrinth REST API.
type Client struct {
	// baseURL is the API root, e.g. "https://api.modrinth.com/v2".
	baseURL string
	// token is the API credential sent as the Authorization header on uploads.
	token string
	// userAgent identifies the tool to the registry.
	userAgent string
	// lookupTimeout bounds project lookup and version listing calls.
	lookupTimeout time.Duration
	// uploadTimeout bounds version uploads.
	uploadTimeout time.Duration
	// httpClient performs all requests; timeouts come from per-call contexts.
	httpClient *http.Client
	// limiter paces requests to stay inside the registry's rate limits.
	limiter *rate.Limiter
}

// Options configures a Client.
type Options struct {
	// BaseURL is the API root.
	BaseURL string
	// Token is the API credential; may be empty for read-only use.
	Token string
	// UserAgent identifies the tool to the registry.
	UserAgent string
	// LookupTimeout bounds project lookup and version listing calls.
	LookupTimeout time.Duration
	// UploadTimeout bounds version uploads.
	UploadTimeout time.Duration
	// RequestsPerSecond caps the sustained request rate.
	RequestsPerSecond float64
}

// NewClient creates a Modrinth API client.
func NewClient(opts *Options) *Client {
	return &Client{
		baseURL:       opts.BaseURL,
		token:         opts.Token,
		userAgent:     opts.UserAgent,
		lookupTimeout: opts.LookupTimeout,
		uploadTimeout: opts.UploadTimeout,
		httpClient:    &http.Client{},
		limiter:       rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), defaultBurst),
	}
}

// projectResponse mirrors the fields of interest of a project lookup.
type projectResponse struct {
	// ID is the canonical project id.
	ID string `json:"id"`
	// ProjectID is an alternate field some endpoints use.
	ProjectID string `json:"project_id"`
}

// versionResponse mirrors the fields of interest of a published version.
type versionResponse struct {
	// VersionNumber is the artifact version number.
	VersionNumber string `json:"version_number"`
	// GameVersions lists the game versions the artifact declares support for.
	GameVersions []string `json:"game_versions"`
}

// versionMetadata is the JSON payload of the "data" part of an upload.
type versionMetadata struct {
	Name           string   `json:"name"`
	VersionNumber  string   `json:"version_number"`
	Changelog      string   `json:"changelog"`
	Dependencies   []any    `json:"dependencies"`
	GameVersions   []string `json:"game_versions"`
	ReleaseChannel string   `json:"release_channel"`
	Loaders        []string `json:"loaders"`
	Featured       bool     `json:"featured"`
	ProjectID      string   `json:"project_id"`
	FileParts      []string `json:"file_parts"`
}

// VersionUpload describes one artifact to publish.
type VersionUpload struct {
	// ArchivePath is the zip to upload.
	ArchivePath string
	// ProjectID is the canonical project id.
	ProjectID string
	// GameVersions lists the game versions the artifact supports.
	GameVersions []string
	// VersionNumber is the artifact version number.
	VersionNumber string
	// Name is the human-readable version name.
	Name string
	// Changelog is the release changelog.
	Changelog string
}

// ResolveProjectID looks up a project by slug or id.
// A "not found" response yields found == false without an error: the project
// simply has not been created yet, which is the expected first-upload state.
func (c *Client) ResolveProjectID(ctx context.Context, idOrSlug string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return "", false, fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/project/%s", c.baseURL, idOrSlug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", false, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	response, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("resolve project %q: %w", idOrSlug, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode == http.StatusNotFound {
		logger.InfoKV(ctx, "Project not found on Modrinth, assuming first upload",
			"project", idOrSlug)

		return "", false, nil
	}

	if response.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("resolve project %q: %s: %w",
			idOrSlug, response.Status, errBadHTTPStatus)
	}

	var project projectResponse
	if err = json.NewDecoder(response.Body).Decode(&project); err != nil {
		return "", false, fmt.Errorf("decode project response: %w", err)
	}

	id := project.ID
	if id == "" {
		id = project.ProjectID
	}

	if id == "" {
		return "", false, fmt.Errorf("project %q: %w", idOrSlug, errEmptyProjectID)
	}

	return id, true, nil
}

// FetchVersions lists all published versions of a project and folds them
// into a registry snapshot.
func (c *Client) FetchVersions(ctx context.Context, projectID string) (*pack.RegistrySnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/project/%s/version", c.baseURL, projectID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch versions of %q: %w", projectID, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch versions of %q: %s: %w",
			projectID, response.Status, errBadHTTPStatus)
	}

	var versions []versionResponse
	if err = json.NewDecoder(response.Body).Decode(&versions); err != nil {
		return nil, fmt.Errorf("decode versions response: %w", err)
	}

	snapshot := pack.NewRegistrySnapshot()

	for _, v := range versions {
		for _, gameVersion := range v.GameVersions {
			snapshot.GameVersions[gameVersion] = struct{}{}
		}

		if v.VersionNumber == "" {
			continue
		}

		snapshot.PackVersions[v.VersionNumber] = append(
			snapshot.PackVersions[v.VersionNumber], v.GameVersions...)
	}

	return snapshot, nil
}

// CreateVersion uploads one archive as a new project version.
// The request is a single multipart submission: a JSON metadata part named
// "data" and the binary archive part named "file". The operation is never
// retried here; retry policy belongs to the caller.
func (c *Client) CreateVersion(ctx context.Context, upload *VersionUpload) error {
	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	archive, err := os.ReadFile(filepath.Clean(upload.ArchivePath))
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}

	metadata := versionMetadata{
		Name:           upload.Name,
		VersionNumber:  upload.VersionNumber,
		Changelog:      upload.Changelog,
		Dependencies:   []any{},
		GameVersions:   upload.GameVersions,
		ReleaseChannel: releaseChannel,
		Loaders:        []string{"minecraft"},
		Featured:       false,
		ProjectID:      upload.ProjectID,
		FileParts:      []string{metadataPartName},
	}

	body, contentType, err := encodeMultipart(&metadata, filepath.Base(upload.ArchivePath), archive)
	if err != nil {
		return err
	}

	url := c.baseURL + "/version"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", c.token)

	logger.InfoKV(ctx, "Uploading version to Modrinth",
		"project_id", upload.ProjectID,
		"version_number", upload.VersionNumber,
		"game_versions", upload.GameVersions,
		"archive_bytes", len(archive))

	response, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload version %q: %w", upload.VersionNumber, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorDetail))

		return fmt.Errorf("upload version %q: %s: %s: %w",
			upload.VersionNumber, response.Status, string(detail), errBadHTTPStatus)
	}

	logger.InfoKV(ctx, "Upload successful",
		"version_number", upload.VersionNumber,
		"game_versions", len(upload.GameVersions))

	return nil
}

// encodeMultipart builds the two-part upload body and returns it with its content type.
func encodeMultipart(metadata *versionMetadata, filename string, archive []byte) (io.Reader, string, error) {
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return nil, "", fmt.Errorf("encode metadata: %w", err)
	}

	var buffer bytes.Buffer

	writer := multipart.NewWriter(&buffer)

	metadataHeader := textproto.MIMEHeader{}
	metadataHeader.Set("Content-Disposition", `form-data; name="`+metadataPartName+`"`)
	metadataHeader.Set("Content-Type", "application/json")

	metadataPart, err := writer.CreatePart(metadataHeader)
	if err != nil {
		return nil, "", fmt.Errorf("create metadata part: %w", err)
	}

	if _, err = metadataPart.Write(encoded); err != nil {
		return nil, "", fmt.Errorf("write metadata part: %w", err)
	}

	fileHeader := textproto.MIMEHeader{}
	fileHeader.Set("Content-Disposition",
		`form-data; name="`+filePartName+`"; filename="`+filename+`"`)
	fileHeader.Set("Content-Type", archiveContentType)

	filePart, err := writer.CreatePart(fileHeader)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}

	if _, err = filePart.Write(archive); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}

	if err = writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finish multipart body: %w", err)
	}

	return &buffer, writer.FormDataContentType(), nil
}
