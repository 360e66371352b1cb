package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bbernstein/normals/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
)

// HTTPOpener downloads station files over HTTP(S).
type HTTPOpener struct {
	client client.Interface
}

func NewHTTPOpener(httpClient client.Interface) *HTTPOpener {
	return &HTTPOpener{client: httpClient}
}

func (o *HTTPOpener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	resp, err := o.client.Get(ctx, location)
	if err != nil {
		return nil, &FetchError{Location: location, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &FetchError{
			Location:   location,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: status %d", ErrNotFound, resp.StatusCode),
		}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &FetchError{Location: location, StatusCode: resp.StatusCode}
	}

	log.Debug().
		Str("location", location).
		Int("bytes", len(resp.Body)).
		Msg("Downloaded station file")

	return io.NopCloser(bytes.NewReader(resp.Body)), nil
}
