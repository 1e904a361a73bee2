package addon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/FlorianBx/wam/internal/errs"
	"github.com/FlorianBx/wam/internal/logging"
)

const (
	// DefaultTimeout bounds a single archive download
	DefaultTimeout = 2 * time.Minute
	// DefaultMaxRedirects caps the redirect chain of a download
	DefaultMaxRedirects = 10
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "WoW-Addon-Manager"
	// DefaultBaseURL is the host serving branch archives
	DefaultBaseURL = "https://github.com"
)

// FetcherConfig configures a Fetcher. Zero values select the defaults.
type FetcherConfig struct {
	BaseURL      string
	UserAgent    string
	Timeout      time.Duration
	MaxRedirects int
}

// Fetcher downloads branch archives. It makes exactly one attempt per call;
// retrying is left to the user.
type Fetcher struct {
	client  *resty.Client
	baseURL string
	logger  *zap.Logger
}

// NewFetcher creates a new fetcher
func NewFetcher(cfg FetcherConfig, logger *zap.Logger) *Fetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}

	logger = logging.OrNop(logger).Named("fetch")

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(cfg.MaxRedirects)).
		SetHeader("User-Agent", cfg.UserAgent).
		SetRetryCount(0).
		SetLogger(logger.Sugar())

	return &Fetcher{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// ArchiveURL returns the default-branch zip URL for an "owner/name" repo.
func (f *Fetcher) ArchiveURL(repo string) (string, error) {
	owner, name, err := ParseRepo(repo)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s/archive/refs/heads/%s.zip", f.baseURL, owner, name, DefaultBranch), nil
}

// Fetch downloads the archive for repo and returns the whole body.
func (f *Fetcher) Fetch(ctx context.Context, repo string) ([]byte, error) {
	url, err := f.ArchiveURL(repo)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	f.logger.Debug("downloading archive", zap.String("url", url))

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, errs.New(errs.KindFetch, "download "+repo, "request failed", err)
	}

	if !resp.IsSuccess() {
		return nil, &errs.Error{
			Kind:    errs.KindFetch,
			Op:      "download " + repo,
			Message: "Failed to download: " + resp.Status(),
			Status:  resp.StatusCode(),
		}
	}

	body := resp.Body()
	f.logger.Debug("archive downloaded",
		zap.String("url", url),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	return body, nil
}
