// Package source opens station files from the local disk, S3 or HTTP.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bbernstein/normals/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when a remote station file does not exist.
// Missing local files wrap fs.ErrNotExist instead.
var ErrNotFound = errors.New("station file not found")

// Opener opens a station file for reading. Callers close the reader.
type Opener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// LocalOpener reads files from the local filesystem.
type LocalOpener struct{}

func (LocalOpener) Open(_ context.Context, location string) (io.ReadCloser, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", location, err)
	}
	log.Debug().Str("location", location).Msg("Opened local station file")
	return f, nil
}

// Router picks an opener by the scheme of the location. Locations without a
// known scheme are treated as local paths.
type Router struct {
	Local Opener
	S3    Opener
	HTTP  Opener
}

var _ Opener = (*Router)(nil)

func NewRouter(s3Opener, httpOpener Opener) *Router {
	return &Router{
		Local: LocalOpener{},
		S3:    s3Opener,
		HTTP:  httpOpener,
	}
}

// newS3Client is replaced in tests.
var newS3Client = func(ctx context.Context) (S3Client, error) {
	return NewS3Client(ctx)
}

// NewRouterForLocations builds a Router able to open every given location.
// An S3 client is only created when one of them is an s3:// location.
func NewRouterForLocations(ctx context.Context, httpClient client.Interface, locations ...string) (*Router, error) {
	var s3Opener Opener
	for _, location := range locations {
		if Scheme(location) != "s3" {
			continue
		}
		s3Client, err := newS3Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		s3Opener = NewS3Opener(s3Client)
		break
	}

	var httpOpener Opener
	if httpClient != nil {
		httpOpener = NewHTTPOpener(httpClient)
	}

	return NewRouter(s3Opener, httpOpener), nil
}

func (r *Router) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	var opener Opener
	switch Scheme(location) {
	case "s3":
		opener = r.S3
	case "http", "https":
		opener = r.HTTP
	default:
		opener = r.Local
	}

	if opener == nil {
		return nil, fmt.Errorf("no opener configured for %s", location)
	}
	return opener.Open(ctx, location)
}

// Scheme returns the lowercased URL scheme of location, or "" for plain paths.
func Scheme(location string) string {
	idx := strings.Index(location, "://")
	if idx <= 0 {
		return ""
	}
	return strings.ToLower(location[:idx])
}

// FetchError is returned when a station file could not be downloaded.
type FetchError struct {
	Location   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.Location, e.Err)
	}
	return fmt.Sprintf("fetching %s: unexpected status %d", e.Location, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
