// internal/adapters/legacy/client.go
package legacy

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Harsh636/TravelUttarakhandBackend/internal/adapters/observability"
	"github.com/Harsh636/TravelUttarakhandBackend/internal/domain"
)

// maxDownload caps a single image download.
const maxDownload = 32 << 20

// Client reads a legacy deployment's public trek API.
type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int) (*Client, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, fmt.Errorf("legacy base URL is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("legacy base URL: %w", err)
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 30 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

func (c *Client) ListTreks(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	return out, c.getJSON(ctx, "treks", c.base+"/treks", &out)
}

func (c *Client) GetTrekDetail(ctx context.Context, id int64) (map[string]any, error) {
	var out map[string]any
	return out, c.getJSON(ctx, "trekdetails", fmt.Sprintf("%s/trekdetails/%d", c.base, id), &out)
}

// Download fetches an image. Relative references resolve against the base URL.
func (c *Client) Download(ctx context.Context, ref string) ([]byte, error) {
	u := ref
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = c.base + "/" + strings.TrimLeft(strings.ReplaceAll(u, `\`, "/"), "/")
	}
	var out []byte
	err := c.get(ctx, "download", u, func(r io.Reader) error {
		b, err := io.ReadAll(io.LimitReader(r, maxDownload+1))
		if err != nil {
			return err
		}
		if len(b) > maxDownload {
			return fmt.Errorf("download %s: larger than %d bytes", u, maxDownload)
		}
		out = b
		return nil
	})
	return out, err
}

// ---- Internals ----

var ErrUnauthorized = errors.New("legacy: unauthorized")

func (c *Client) getJSON(ctx context.Context, endpoint, u string, out any) error {
	return c.get(ctx, endpoint, u, func(r io.Reader) error {
		return json.NewDecoder(r).Decode(out)
	})
}

// get performs a GET with client-side rate limiting and retries, handing the
// body of a 2xx response to read. Retries on 429 and transient 5xx, honoring
// Retry-After when provided. Every attempt, retries included, takes a limiter token.
func (c *Client) get(ctx context.Context, endpoint, u string, read func(io.Reader) error) error {
	var lastErr error
	for i := 0; i < 4; i++ {
		// client-side rate limiting
		if err := c.rl.Wait(ctx); err != nil {
			return err
		}

		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", "trek-importer/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("legacy", endpoint, 0, time.Since(start))
			// network error or context canceled
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("legacy", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := read(resp.Body)
			resp.Body.Close()
			return err

		case http.StatusNotFound:
			resp.Body.Close()
			return fmt.Errorf("legacy %s: %w", u, domain.ErrNotFound)

		case http.StatusUnauthorized, http.StatusForbidden:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			// read a small error body for diagnostics
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns 200ms, 400ms, 800ms... plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
