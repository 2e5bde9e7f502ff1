package blob

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPTransport PUTs the bytes to a presigned URL.
type HTTPTransport struct {
	Client *http.Client
}

func NewHTTPTransport(c *http.Client) *HTTPTransport {
	if c == nil {
		c = http.DefaultClient
	}
	return &HTTPTransport{Client: c}
}

func (t *HTTPTransport) Put(ctx context.Context, dst Destination, ref *Ref) error {
	if dst.URL == "" {
		return fmt.Errorf("upload failed: no upload url")
	}

	var body io.Reader = http.NoBody
	if ref.Size() > 0 {
		body = ref.Reader()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, dst.URL, body)
	if err != nil {
		return err
	}
	req.ContentLength = ref.Size()
	req.Header.Set("Content-Type", contentType(dst))

	resp, err := t.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
}

// Downloader fetches an object from a presigned GET URL into w.
type Downloader interface {
	Get(ctx context.Context, url string, w io.Writer) (int64, error)
}

// Get streams the object behind a presigned URL into w and returns the number
// of bytes written.
func (t *HTTPTransport) Get(ctx context.Context, url string, w io.Writer) (int64, error) {
	if url == "" {
		return 0, fmt.Errorf("download failed: no download url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return 0, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}
	return io.Copy(w, resp.Body)
}
