package fetcher

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = int64(10 * 1024 * 1024)
)

type FetcherConfig struct {
	Timeout      time.Duration
	UserAgent    string // empty keeps the Go client default
	MaxBodyBytes int64
	Logger       *zerolog.Logger
}

// FetchError is returned for every way a fetch can fail: bad URL, DNS,
// connection, timeout, non-2xx status or unreadable body.
type FetchError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Fetcher struct {
	config FetcherConfig
	client *http.Client
	log    zerolog.Logger
}

func NewWithConfig(config FetcherConfig) *Fetcher {
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxBodyBytes == 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}

	log := zerolog.Nop()
	if config.Logger != nil {
		log = config.Logger.With().Str("component", "fetcher").Logger()
	}

	return &Fetcher{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		log: log,
	}
}

func New() *Fetcher {
	return NewWithConfig(FetcherConfig{})
}

// Fetch GETs url and returns the body, transcoded to UTF-8 only when another
// charset is declared.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.log.Debug().Str("url", url).Msg("Fetching page")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	if f.config.UserAgent != "" {
		req.Header.Set("User-Agent", f.config.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("received status code %d", resp.StatusCode),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodyBytes+1))
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	if int64(len(raw)) > f.config.MaxBodyBytes {
		return "", &FetchError{URL: url, Err: fmt.Errorf("body exceeds %d bytes", f.config.MaxBodyBytes)}
	}

	body, err := decode(raw, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	f.log.Debug().Str("url", url).Int("status", resp.StatusCode).Int("bytes", len(raw)).Msg("Fetched page")
	return body, nil
}

// decode returns raw as text. Bytes are transcoded only when a charset is
// declared in the Content-Type header, or when the body is not valid UTF-8 and
// a <meta> charset (or the sniffed fallback) names another encoding.
func decode(raw []byte, contentType string) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	if label := declaredCharset(contentType); label != "" {
		enc, name := charset.Lookup(label)
		if enc == nil || name == "utf-8" {
			return string(raw), nil
		}
		return transcode(enc, raw)
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	enc, _, _ := charset.DetermineEncoding(raw, contentType)
	return transcode(enc, raw)
}

func declaredCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(params["charset"])
}

func transcode(enc encoding.Encoding, raw []byte) (string, error) {
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode body: %w", err)
	}
	return string(decoded), nil
}
