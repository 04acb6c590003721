package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bobg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"mvdan.cc/xurls/v2"
)

var (
	errNoURL      = errors.New("url not found")
	errNoRedirect = errors.New("url has no redirect")
)

// concurrent lookups per message
const resolveLimit = 8

func findURLs(text string) ([]string, error) {
	urls := xurls.Relaxed().FindAllString(text, -1)
	for i, u := range urls {
		if !strings.HasPrefix(u, "http") {
			urls[i] = "http://" + u
		}
	}

	if len(urls) == 0 {
		return nil, errNoURL
	}
	return urls, nil
}

type resolver struct {
	client       *http.Client
	maxRedirects int
	logger       *zap.Logger
}

func newResolver(timeout time.Duration, maxRedirects int, logger *zap.Logger) *resolver {
	return &resolver{
		client: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   timeout,
		},
		maxRedirects: maxRedirects,
		logger:       logger,
	}
}

// Resolve follows the redirects of shortURL and returns the chain of URLs
// whose path changed along the way, starting with shortURL itself.
func (r *resolver) Resolve(ctx context.Context, shortURL string) ([]string, error) {
	if _, err := url.Parse(shortURL); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", shortURL)
	}

	result := []string{shortURL}
	client := *r.client
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= r.maxRedirects {
			return http.ErrUseLastResponse
		}

		newRaw := req.URL.String()
		changed, err := pathChanged(result[len(result)-1], newRaw)
		if err != nil {
			return http.ErrUseLastResponse
		}
		if changed {
			result = append(result, newRaw)
		}
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, shortURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "creating request for %s", shortURL)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "requesting %s", shortURL)
	}
	defer resp.Body.Close()

	if len(result) > 1 {
		return result, nil
	}
	return nil, fmt.Errorf("%w: %s", errNoRedirect, shortURL)
}

// ResolveAll resolves urls concurrently. The chain for a URL that could not be
// resolved is nil.
func (r *resolver) ResolveAll(ctx context.Context, urls []string) [][]string {
	chains := make([][]string, len(urls))

	var g errgroup.Group
	g.SetLimit(resolveLimit)
	for i, u := range urls {
		g.Go(func() error {
			chain, err := r.Resolve(ctx, u)
			if err != nil {
				r.logger.Debug("resolve failed", zap.String("url", u), zap.Error(err))
				return nil
			}
			chains[i] = chain
			return nil
		})
	}
	_ = g.Wait()

	return chains
}

func pathChanged(oldRaw string, newRaw string) (bool, error) {
	oldURL, err := url.Parse(oldRaw)
	if err != nil {
		return false, err
	}

	newURL, err := url.Parse(newRaw)
	if err != nil {
		return false, err
	}

	return oldURL.Path != newURL.Path, nil
}
