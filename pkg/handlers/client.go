package handlers

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/dotinstall/internal/version"
	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/logging"
)

// Client downloads release assets, feeds and installer scripts
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a download client with the given timeout
func NewClient(timeout time.Duration) *Client {
	return NewClientWithHTTP(&http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
		},
	})
}

// NewClientWithHTTP wraps an existing http.Client, e.g. an httptest server's
func NewClientWithHTTP(c *http.Client) *Client {
	return &Client{
		httpClient: c,
		userAgent:  "dotinstall/" + version.Version,
	}
}

// Get performs a GET and fails on any status other than 200
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDownload, "invalid URL %s", url)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDownload, "failed to fetch %s", url)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, errors.Newf(errors.ErrDownload, "failed to fetch %s: %s", url, resp.Status).
			WithDetail("url", url).
			WithDetail("status", resp.StatusCode)
	}
	return resp, nil
}

// Fetch returns a whole response body
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDownload, "failed to read %s", url)
	}
	return data, nil
}

// Download streams url into dest. The file only appears once complete.
func (c *Client) Download(ctx context.Context, url, dest string) error {
	logger := logging.GetLogger("download")
	start := time.Now()

	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(dest))
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".part-*")
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to create %s", dest)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	written, err := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err != nil {
		return errors.Wrapf(err, errors.ErrDownload, "failed to download %s", url)
	}
	if closeErr != nil {
		return errors.Wrapf(closeErr, errors.ErrFileWrite, "failed to write %s", dest)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to move download to %s", dest)
	}

	logger.Debug().
		Str("url", url).
		Str("dest", dest).
		Int64("bytes", written).
		Dur("duration", time.Since(start)).
		Msg("Downloaded")
	return nil
}
