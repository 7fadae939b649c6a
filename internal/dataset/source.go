package dataset

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Size limits to keep a bad source from exhausting memory; review dumps of large
// Gerrit projects run to a few hundred megabytes.
const (
	MaxFileBytes = 512 * 1024 * 1024
	MaxHTTPBytes = 512 * 1024 * 1024
)

// HTTPTimeout bounds a whole dataset download.
const HTTPTimeout = 5 * time.Minute

// httpClient is shared and safe for concurrent use.
var httpClient = &http.Client{
	Timeout: HTTPTimeout,
	Transport: &http.Transport{
		Dial: (&net.Dialer{
			Timeout: 30 * time.Second,
		}).Dial,
		TLSHandshakeTimeout:   30 * time.Second,
		ResponseHeaderTimeout: time.Minute,
	},
}

// cappedReader fails once more than n bytes are available; exactly n bytes read cleanly.
type cappedReader struct {
	io.ReadCloser
	n      int64
	source string
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.n <= 0 {
		// budget spent: only end of input is acceptable
		var extra [1]byte
		n, err := c.ReadCloser.Read(extra[:])
		if n > 0 {
			return 0, fmt.Errorf("content from %q exceeds size limit", c.source)
		}
		return 0, err
	}
	if int64(len(p)) > c.n {
		p = p[:c.n]
	}
	n, err := c.ReadCloser.Read(p)
	c.n -= int64(n)
	return n, err
}

// Open returns a reader for a dataset source:
//   - "-" reads standard input
//   - "http://" and "https://" URLs are downloaded
//   - anything else is a local file path
//
// ctx cancels HTTP downloads.
func Open(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == "-":
		return &cappedReader{ReadCloser: io.NopCloser(os.Stdin), n: MaxFileBytes, source: "stdin"}, nil
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return openURL(ctx, source)
	default:
		return openFile(source)
	}
}

func openURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", "tie/0.1")
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %q: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request failed for URL %q: status %s", url, resp.Status)
	}

	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil && size > MaxHTTPBytes {
			resp.Body.Close()
			return nil, fmt.Errorf("HTTP content too large (%d bytes > %d bytes limit)", size, MaxHTTPBytes)
		}
	}

	return &cappedReader{ReadCloser: resp.Body, n: MaxHTTPBytes, source: url}, nil
}

func openFile(path string) (io.ReadCloser, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access file %q: %w", path, err)
	}
	if info.Size() > MaxFileBytes {
		return nil, fmt.Errorf("file %q is too large (%d bytes > %d bytes limit)", path, info.Size(), MaxFileBytes)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	return f, nil
}
