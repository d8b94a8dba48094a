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
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/kennygrant/sanitize"
)

// maxAnchorTextLen caps stored anchor text.
const maxAnchorTextLen = 100

// noAnchorText is stored for links whose anchor text is empty after cleanup.
const noAnchorText = "(no text)"

// Link is one source-page-to-target-URL observation with metadata. Identity
// is the (SourceURL, TargetURL) pair; a page that repeats the same href is
// recorded once, with the metadata of the first occurrence.
type Link struct {
	// SourceURL is the canonical URL of the page the link was found on
	SourceURL string `json:"source_url"`
	// TargetURL is the canonical URL the link points to
	TargetURL string `json:"target_url"`
	// AnchorText is the cleaned link text, truncated to 100 characters;
	// "(no text)" when the link has no text
	AnchorText string `json:"anchor_text"`
	// IsInternal indicates whether the target is on the configured base domain
	IsInternal bool `json:"is_internal"`
	// TargetDomain is the raw host of the target URL
	TargetDomain string `json:"target_domain"`
	// TargetStatus is the HTTP status of the target if it has been crawled,
	// nil while unknown. Filled in by BackfillStatuses.
	TargetStatus *int `json:"target_status"`
	// Placement classifies where on the source page the link appears
	Placement Placement `json:"placement"`
	// LinkPath is an XPath-like locator of the link on the source page
	LinkPath string `json:"link_path"`
}

// CrawlResult is the (url, status) outcome of one fetched page, consumed by
// BackfillStatuses. Produced by the crawl-loop driver.
type CrawlResult struct {
	URL        string
	StatusCode int
}

// LinkGraph accumulates every extracted link as an edge with metadata,
// deduplicated by (source, target) pair. Its lock is independent of the
// frontier's: recording edges never blocks admission. When a frontier is
// attached, each recorded edge also feeds the frontier's source index; the
// two locks are taken strictly one after the other, never nested.
type LinkGraph struct {
	baseDomain string
	frontier   *Frontier

	mu    sync.Mutex
	links []Link
	seen  map[uint64]struct{}
}

// NewLinkGraph creates an empty link graph classifying targets against
// baseDomain. frontier may be nil; when set, RecordLink keeps the frontier's
// "linked from" index in step with the edge list.
func NewLinkGraph(baseDomain string, frontier *Frontier) *LinkGraph {
	return &LinkGraph{
		baseDomain: baseDomain,
		frontier:   frontier,
		seen:       make(map[uint64]struct{}),
	}
}

// edgeKey hashes a (source, target) pair into the edge identity key.
func edgeKey(source, target string) uint64 {
	h := xxhash.New()
	h.WriteString(source)
	h.WriteString("|")
	h.WriteString(target)
	return h.Sum64()
}

// RecordLink records one link observation: the href as found on sourceURL,
// its anchor text, and the link element's ancestor chain. The target is
// normalized and classified, placement and path are derived from the chain,
// and the edge is appended unless the (source, target) pair was already
// recorded — re-recording an existing pair is a silent no-op and changes
// nothing, including anchor text. Hrefs that are not crawlable links (empty,
// fragment-only, mailto:, tel:) are rejected.
//
// Returns true if a new edge was recorded.
func (g *LinkGraph) RecordLink(sourceURL, href, anchorText string, chain AncestorChain) bool {
	target, err := NormalizeURL(href, sourceURL)
	if err != nil {
		return false
	}

	// Canonicalize the source page so edges and the frontier's source index
	// agree with Admit on the spelling of the same page.
	if canon, err := NormalizeURL(sourceURL, ""); err == nil {
		sourceURL = canon
	}

	link := Link{
		SourceURL:    sourceURL,
		TargetURL:    target,
		AnchorText:   cleanAnchorText(anchorText),
		IsInternal:   IsInternal(target, g.baseDomain),
		TargetDomain: hostOf(target),
		Placement:    ClassifyPlacement(chain),
		LinkPath:     BuildLinkPath(chain),
	}

	// Source attribution lives in the frontier's lock domain. Taken and
	// released before the graph lock below; the two are never held together.
	if g.frontier != nil {
		g.frontier.RecordSource(target, sourceURL)
	}

	key := edgeKey(sourceURL, target)

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[key]; ok {
		return false
	}
	g.seen[key] = struct{}{}
	g.links = append(g.links, link)
	return true
}

// BackfillStatuses fills in TargetStatus for every recorded edge whose target
// appears in results. It builds a lookup table once, so the pass is O(edges +
// results), and may be invoked repeatedly as more results arrive: later calls
// add or refresh statuses but never remove one.
func (g *LinkGraph) BackfillStatuses(results []CrawlResult) {
	if len(results) == 0 {
		return
	}

	lookup := make(map[string]int, len(results))
	for _, r := range results {
		lookup[r.URL] = r.StatusCode
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.links {
		if status, ok := lookup[g.links[i].TargetURL]; ok {
			s := status
			g.links[i].TargetStatus = &s
		}
	}
}

// Links returns a snapshot copy of all recorded edges in recording order.
// Status pointers are copied too, so later backfills cannot tear the snapshot.
func (g *LinkGraph) Links() []Link {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Link, len(g.links))
	copy(out, g.links)
	for i := range out {
		if out[i].TargetStatus != nil {
			s := *out[i].TargetStatus
			out[i].TargetStatus = &s
		}
	}
	return out
}

// Len returns the number of recorded edges.
func (g *LinkGraph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.links)
}

// Reset clears all recorded edges atomically with respect to other link-graph
// operations.
func (g *LinkGraph) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.links = nil
	g.seen = make(map[uint64]struct{})
}

// cleanAnchorText strips any markup from raw anchor text, collapses
// whitespace and truncates to maxAnchorTextLen. Empty results become
// "(no text)".
func cleanAnchorText(raw string) string {
	text := sanitize.HTML(raw)
	text = strings.Join(strings.Fields(text), " ")

	if text == "" {
		return noAnchorText
	}
	if runes := []rune(text); len(runes) > maxAnchorTextLen {
		text = string(runes[:maxAnchorTextLen])
	}
	return text
}
