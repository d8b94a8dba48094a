// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package librecrawl

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/temoto/robotstxt"

	"github.com/georgi-donchev-ffw/LibreCrawl/debug"
)

// Errors returned by ParseSitemap. Each one means the candidate document
// contributed zero URLs; none of them aborts sibling candidates.
var (
	// ErrSitemapFetch wraps transport failures while fetching a sitemap
	ErrSitemapFetch = errors.New("sitemap fetch failed")
	// ErrSitemapStatus is returned for non-200 sitemap responses
	ErrSitemapStatus = errors.New("sitemap returned non-200 status")
	// ErrSitemapParse wraps XML parse failures
	ErrSitemapParse = errors.New("sitemap XML parse failed")
)

// FetchFunc retrieves a URL and returns the HTTP status code and body. It is
// supplied by the embedding transport layer; the resolver itself never builds
// HTTP clients. See NewClientFetch for the standard implementation.
type FetchFunc func(url string) (statusCode int, body []byte, err error)

// Renderer fetches a URL through a JavaScript-capable browser. Optional; used
// by the sitemap resolver before plain fetching, for sites that serve their
// sitemaps behind JS challenges.
type Renderer interface {
	Render(url string) (statusCode int, html string, err error)
}

// defaultSitemapPaths are the well-known sitemap locations tried on every
// discovery, before any robots.txt declarations.
var defaultSitemapPaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemaps.xml",
	"/sitemap/sitemap.xml",
}

// SitemapConfig configures sitemap resolution.
type SitemapConfig struct {
	// MaxDepth bounds recursion through nested sitemap-index documents.
	// A branch past the limit contributes zero URLs instead of erroring,
	// which cuts off cyclic sitemap chains.
	// Default: 10
	MaxDepth int
}

// NewDefaultSitemapConfig returns a SitemapConfig with defaults applied.
func NewDefaultSitemapConfig() *SitemapConfig {
	return &SitemapConfig{MaxDepth: 10}
}

// SitemapResolver discovers and parses sitemap.xml files, bootstrapping URL
// discovery before any page has been fetched. Resolution is sequential
// recursion over untrusted XML, bounded by MaxDepth; it holds no shared-state
// lock while performing network I/O.
type SitemapResolver struct {
	fetch    FetchFunc
	renderer Renderer
	config   *SitemapConfig
	debugger debug.Debugger

	// truncated counts branches cut off by the recursion bound, so
	// pathological inputs are detectable after the fact
	truncated int
}

// NewSitemapResolver creates a resolver around the given fetch capability.
// If config is nil, defaults are used.
func NewSitemapResolver(fetch FetchFunc, config *SitemapConfig) *SitemapResolver {
	if config == nil {
		config = NewDefaultSitemapConfig()
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = 10
	}
	return &SitemapResolver{fetch: fetch, config: config}
}

// SetRenderer attaches an optional JS-capable renderer. When set, every
// sitemap fetch goes through the renderer first and falls back to the plain
// fetch on any renderer error or non-200 status.
func (r *SitemapResolver) SetRenderer(renderer Renderer) {
	r.renderer = renderer
}

// SetDebugger attaches a debugger that receives per-candidate skip events.
func (r *SitemapResolver) SetDebugger(d debug.Debugger) {
	d.Init()
	r.debugger = d
}

// DiscoverSitemaps derives the origin of baseURL, builds the candidate list
// from the well-known sitemap paths plus every Sitemap: declaration in
// robots.txt, parses each candidate and concatenates all URLs found. A
// candidate that fails to fetch or parse is skipped; it never aborts the
// remaining candidates. Returns every URL found across all candidates.
func (r *SitemapResolver) DiscoverSitemaps(baseURL string) []string {
	origin, err := originOf(baseURL)
	if err != nil {
		r.event("sitemap_skip", baseURL, err)
		return nil
	}

	candidates := make([]string, 0, len(defaultSitemapPaths))
	for _, path := range defaultSitemapPaths {
		candidates = append(candidates, origin+path)
	}
	candidates = append(candidates, r.sitemapsFromRobots(origin)...)

	var all []string
	for _, candidate := range candidates {
		urls, err := r.ParseSitemap(candidate, 1)
		if err != nil {
			r.event("sitemap_skip", candidate, err)
			continue
		}
		all = append(all, urls...)
	}
	return all
}

// sitemapsFromRobots fetches origin/robots.txt and returns the URLs declared
// on its Sitemap: lines. Any failure yields an empty list.
func (r *SitemapResolver) sitemapsFromRobots(origin string) []string {
	status, body, err := r.fetch(origin + "/robots.txt")
	if err != nil || status != http.StatusOK {
		r.event("robots_skip", origin+"/robots.txt", err)
		return nil
	}

	robots, err := robotstxt.FromBytes(body)
	if err != nil {
		r.event("robots_skip", origin+"/robots.txt", err)
		return nil
	}
	return robots.Sitemaps
}

// ParseSitemap fetches and parses one sitemap document, returning the URLs it
// (and any nested sitemap-index entries) contains. depth starts at 1; past
// the configured MaxDepth the branch returns empty without error. Namespace
// prefixes on tags are ignored, so documents with or without the sitemaps.org
// namespace parse the same way. Compressed (.gz) documents are decompressed
// first; if decompression fails the raw bytes go to the XML parser, whose
// failure is then reported the normal way.
//
// A returned error means this document contributed zero URLs; it never
// reflects a failure of a sibling document.
func (r *SitemapResolver) ParseSitemap(sitemapURL string, depth int) ([]string, error) {
	if depth > r.config.MaxDepth {
		r.truncated++
		return nil, nil
	}

	body, err := r.fetchSitemap(sitemapURL)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(strings.ToLower(sitemapURL), ".gz") {
		if decompressed, err := gunzip(body); err == nil {
			body = decompressed
		}
	}

	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSitemapParse, sitemapURL, err)
	}

	var all []string

	// Sitemap-index entries point at further sitemap documents
	for _, loc := range xmlquery.Find(doc, "//*[local-name()='sitemap']/*[local-name()='loc']") {
		nested := strings.TrimSpace(loc.InnerText())
		if nested == "" {
			continue
		}
		urls, err := r.ParseSitemap(nested, depth+1)
		if err != nil {
			r.event("sitemap_skip", nested, err)
			continue
		}
		all = append(all, urls...)
	}

	// Plain urlset entries
	for _, loc := range xmlquery.Find(doc, "//*[local-name()='url']/*[local-name()='loc']") {
		if u := strings.TrimSpace(loc.InnerText()); u != "" {
			all = append(all, u)
		}
	}

	return all, nil
}

// fetchSitemap retrieves a sitemap document, going through the renderer first
// when one is configured and falling back to the plain fetch on any renderer
// failure.
func (r *SitemapResolver) fetchSitemap(sitemapURL string) ([]byte, error) {
	if r.renderer != nil {
		status, html, err := r.renderer.Render(sitemapURL)
		if err == nil && status == http.StatusOK {
			return []byte(html), nil
		}
		r.event("render_fallback", sitemapURL, err)
	}

	status, body, err := r.fetch(sitemapURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSitemapFetch, sitemapURL, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: HTTP %d", ErrSitemapStatus, sitemapURL, status)
	}
	return body, nil
}

// TruncatedBranches reports how many sitemap-index branches were cut off by
// the recursion bound since the resolver was created.
func (r *SitemapResolver) TruncatedBranches() int {
	return r.truncated
}

// gunzip decompresses gzip-compressed bytes.
func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// event emits a debugger event if a debugger is attached.
func (r *SitemapResolver) event(eventType, url string, err error) {
	if r.debugger == nil {
		return
	}
	values := map[string]string{"url": url}
	if err != nil {
		values["reason"] = err.Error()
	}
	r.debugger.Event(debug.NewEvent(eventType, values))
}

// NewClientFetch builds the standard FetchFunc on top of an *http.Client.
// Each request is bounded by timeout; the response body is read fully so the
// connection can be reused.
func NewClientFetch(client *http.Client, timeout time.Duration) FetchFunc {
	return func(url string) (int, []byte, error) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return 0, nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, nil, err
		}
		return resp.StatusCode, body, nil
	}
}
