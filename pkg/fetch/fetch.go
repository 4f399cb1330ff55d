// Package fetch resolves per-platform download links from the vendor's
// download-resolution endpoint and extracts version strings from the
// returned URLs.
package fetch

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"cursorup/internal/transport"
	"cursorup/pkg/constants"
	"cursorup/pkg/errors"
	"cursorup/pkg/platforms"
)

// Record is the transient result of resolving one platform: the download
// URL and the version embedded in it. Version is empty when no pattern
// matched; such records still contribute their URL to a merge but are
// excluded from highest-version computation.
type Record struct {
	Platform string
	URL      string
	Version  string
}

// downloadResponse is the JSON body of the download-resolution endpoint.
type downloadResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// userSetupSegment and systemSetupSegment are the path segments that
// distinguish the two Windows installer flavors. The system variant is
// derived from the user variant's URL, never fetched independently.
const (
	userSetupSegment   = "user-setup/"
	systemSetupSegment = "system-setup/"
)

var (
	// winSetupRe matches the Windows installer filename convention, which
	// embeds the version between the arch and the extension.
	winSetupRe = regexp.MustCompile(`CursorUserSetup-[^-]+-(\d+\.\d+\.\d+)\.exe`)

	// genericVersionRe is the fallback scan for a dotted three-part version.
	genericVersionRe = regexp.MustCompile(`\d+\.\d+\.\d+`)
)

// Fetcher queries the download-resolution endpoint.
type Fetcher struct {
	client *transport.Client
	apiURL string
	track  string
}

// Option is a functional option for configuring the Fetcher.
type Option func(*Fetcher)

// WithAPIURL overrides the download-resolution endpoint.
func WithAPIURL(apiURL string) Option {
	return func(f *Fetcher) {
		if apiURL != "" {
			f.apiURL = apiURL
		}
	}
}

// WithReleaseTrack overrides the release track queried.
func WithReleaseTrack(track string) Option {
	return func(f *Fetcher) {
		if track != "" {
			f.track = track
		}
	}
}

// WithClient overrides the transport client. Used by tests.
func WithClient(client *transport.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// New creates a new Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: transport.New(),
		apiURL: constants.DefaultAPIURL,
		track:  constants.DefaultReleaseTrack,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Resolve fetches the download URL for one platform identifier. System
// variants query the stripped identifier and rewrite the returned URL's
// installer path segment. Any transport error, non-success status, or
// malformed body is returned as a *errors.FetchError.
func (f *Fetcher) Resolve(ctx context.Context, platformID string) (Record, error) {
	queryID := platforms.QueryID(platformID)
	endpoint := fmt.Sprintf("%s?platform=%s&releaseTrack=%s",
		f.apiURL, url.QueryEscape(queryID), url.QueryEscape(f.track))

	resp, err := f.client.Get(ctx, endpoint)
	if err != nil {
		return Record{}, errors.NewFetchError(platformID, 0, "request failed", err)
	}

	var body downloadResponse
	if err := transport.DecodeResponse(resp, &body); err != nil {
		var se *transport.StatusError
		if stderrors.As(err, &se) {
			return Record{}, errors.NewFetchError(platformID, se.Code, "non-success status", err)
		}
		return Record{}, errors.NewFetchError(platformID, 0, "malformed response", err)
	}

	if body.DownloadURL == "" {
		return Record{}, errors.NewFetchError(platformID, 0, "response missing downloadUrl", nil)
	}

	downloadURL := body.DownloadURL
	if platforms.IsSystemVariant(platformID) {
		downloadURL = strings.Replace(downloadURL, userSetupSegment, systemSetupSegment, 1)
	}

	return Record{
		Platform: platformID,
		URL:      downloadURL,
		Version:  ExtractVersion(platformID, downloadURL),
	}, nil
}

// ExtractVersion pulls a version string out of a download URL. The Windows
// installer filename pattern is tried first, then a generic dotted-numeric
// scan taking the match nearest the end of the URL. Returns "" when
// nothing matches.
func ExtractVersion(platformID, downloadURL string) string {
	if strings.HasPrefix(platforms.QueryID(platformID), "win32") {
		if m := winSetupRe.FindStringSubmatch(downloadURL); m != nil {
			return m[1]
		}
	}
	all := genericVersionRe.FindAllString(downloadURL, -1)
	if len(all) == 0 {
		return ""
	}
	return all[len(all)-1]
}
