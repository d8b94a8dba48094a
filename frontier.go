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
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/georgi-donchev-ffw/LibreCrawl/debug"
)

// EligibilityFunc decides whether a discovered URL should be crawled at the
// given depth. It encapsulates the embedding driver's crawl policy (depth
// limits, URL-pattern exclusions, robots rules); the frontier itself enforces
// no policy beyond "never re-visit, never re-queue".
type EligibilityFunc func(url string, depth int) bool

// Entry is a pending crawl task: a canonical URL and the depth it was
// discovered at. Entries are created on admission, consumed exactly once by a
// worker and never mutated.
type Entry struct {
	URL   string
	Depth int
}

// FrontierStats is a point-in-time snapshot of frontier progress counters.
// Under concurrent mutation the three counts are not guaranteed to be globally
// consistent with each other, which is acceptable for progress reporting.
type FrontierStats struct {
	// Discovered is the number of unique URLs ever admitted to the queue
	Discovered int
	// Visited is the number of URLs marked as fetched
	Visited int
	// Pending is the number of admitted URLs not yet dequeued
	Pending int
}

// Frontier is the concurrent dedup/queue engine of a crawl run. It admits
// new, not-yet-seen, not-yet-visited URLs, serves them out in FIFO order to
// page-fetch workers, and keeps the reverse source index used for "linked
// from" queries.
//
// All state is guarded by a single mutex; every locked section is a pure
// in-memory mutation, so no caller ever blocks on I/O through the frontier.
// The frontier never takes the link graph's lock (and vice versa).
type Frontier struct {
	mu sync.Mutex

	// visited holds canonical URLs that have been fetched
	visited map[string]struct{}
	// discovered holds every canonical URL ever admitted, including URLs
	// already dequeued. Admission is a claim: once a URL is here it is never
	// queued again, even before the fetch completes.
	discovered map[string]struct{}
	// pending is the FIFO queue of admitted, not-yet-dequeued entries
	pending []Entry

	// sources maps a target URL to the distinct pages linking to it, in
	// first-seen order. sourceSeen dedups (target, source) pairs by hash.
	sources    map[string][]string
	sourceSeen map[uint64]struct{}

	debugger debug.Debugger
}

// NewFrontier creates an empty frontier. Each crawl run constructs a fresh
// instance; state lives for the duration of one run.
func NewFrontier() *Frontier {
	return &Frontier{
		visited:    make(map[string]struct{}),
		discovered: make(map[string]struct{}),
		sources:    make(map[string][]string),
		sourceSeen: make(map[uint64]struct{}),
	}
}

// SetDebugger attaches a debugger that receives admit/dequeue events.
func (f *Frontier) SetDebugger(d debug.Debugger) {
	d.Init()
	f.debugger = d
}

// pairKey hashes a (target, source) pair for source-index deduplication.
func pairKey(target, source string) uint64 {
	h := xxhash.New()
	h.WriteString(target)
	h.WriteString("|")
	h.WriteString(source)
	return h.Sum64()
}

// Admit normalizes rawURL against the page it was found on and queues it for
// crawling if it is new. The source page is recorded into the source index for
// the normalized target regardless of the admission outcome, so "linked from"
// stays complete even for URLs that are never crawled.
//
// A URL is queued only when its canonical form differs from the source page,
// has neither been visited nor admitted before, and eligible (when non-nil)
// returns true. Returns true if the URL was queued.
func (f *Frontier) Admit(rawURL, sourcePageURL string, depth int, eligible EligibilityFunc) bool {
	target, err := NormalizeURL(rawURL, sourcePageURL)
	if err != nil {
		return false
	}

	// Canonicalize the source page too, so "/a#top" found on "/a" is treated
	// as a self-link.
	source := sourcePageURL
	if canon, err := NormalizeURL(sourcePageURL, ""); err == nil {
		source = canon
	}

	f.mu.Lock()
	f.recordSourceLocked(target, source)
	admitted := f.admitLocked(target, source, depth, eligible)
	f.mu.Unlock()

	if admitted {
		f.event("admit", target, source)
	}
	return admitted
}

// admitLocked applies the admission checks and queues the target if they all
// pass. Callers hold f.mu.
func (f *Frontier) admitLocked(target, source string, depth int, eligible EligibilityFunc) bool {
	if target == source {
		return false
	}
	if _, ok := f.visited[target]; ok {
		return false
	}
	if _, ok := f.discovered[target]; ok {
		return false
	}
	if eligible != nil && !eligible(target, depth) {
		return false
	}

	f.discovered[target] = struct{}{}
	f.pending = append(f.pending, Entry{URL: target, Depth: depth})
	return true
}

// AddURL admits an already-absolute URL without source attribution or an
// eligibility check. It is used to seed the frontier with the start URL and
// with URLs discovered through sitemaps. Returns true if the URL was queued.
func (f *Frontier) AddURL(rawURL string, depth int) bool {
	target, err := NormalizeURL(rawURL, "")
	if err != nil {
		return false
	}

	f.mu.Lock()
	admitted := f.admitLocked(target, "", depth, nil)
	f.mu.Unlock()

	if admitted {
		f.event("admit", target, "")
	}
	return admitted
}

// MarkVisited records that a URL has been fetched. Idempotent. A visited URL
// is never re-admitted, even if it was never in the queue.
func (f *Frontier) MarkVisited(rawURL string) {
	target, err := NormalizeURL(rawURL, "")
	if err != nil {
		target = rawURL
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.visited[target] = struct{}{}
}

// Dequeue pops the oldest pending entry. The second return value is false when
// the queue is empty; callers must treat an empty queue as a first-class
// outcome, not an error. FIFO order yields breadth-first traversal when
// workers increment depth by one per hop.
func (f *Frontier) Dequeue() (Entry, bool) {
	f.mu.Lock()
	if len(f.pending) == 0 {
		f.mu.Unlock()
		return Entry{}, false
	}
	entry := f.pending[0]
	f.pending = f.pending[1:]
	f.mu.Unlock()

	f.event("dequeue", entry.URL, "")
	return entry, true
}

// Stats returns a snapshot of the frontier's progress counters.
func (f *Frontier) Stats() FrontierStats {
	f.mu.Lock()
	defer f.mu.Unlock()

	return FrontierStats{
		Discovered: len(f.discovered),
		Visited:    len(f.visited),
		Pending:    len(f.pending),
	}
}

// RecordSource adds sourceURL to the source index of targetURL without going
// through admission. The link graph calls this for every edge it records so
// the source index and the edge list stay in step. Idempotent per pair;
// insertion order of distinct sources is preserved.
func (f *Frontier) RecordSource(targetURL, sourceURL string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordSourceLocked(targetURL, sourceURL)
}

// recordSourceLocked is RecordSource without locking. Callers hold f.mu.
func (f *Frontier) recordSourceLocked(targetURL, sourceURL string) {
	key := pairKey(targetURL, sourceURL)
	if _, ok := f.sourceSeen[key]; ok {
		return
	}
	f.sourceSeen[key] = struct{}{}
	f.sources[targetURL] = append(f.sources[targetURL], sourceURL)
}

// LinkedFrom returns the pages that link to the given URL, in first-seen
// order. The result is a copy; later frontier mutation cannot tear it.
func (f *Frontier) LinkedFrom(rawURL string) []string {
	target, err := NormalizeURL(rawURL, "")
	if err != nil {
		target = rawURL
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	sources := f.sources[target]
	out := make([]string, len(sources))
	copy(out, sources)
	return out
}

// Reset clears all frontier state atomically with respect to other frontier
// operations. It is used between independent crawl runs in the same process
// and must not be called while workers are still admitting or dequeuing.
func (f *Frontier) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.visited = make(map[string]struct{})
	f.discovered = make(map[string]struct{})
	f.pending = nil
	f.sources = make(map[string][]string)
	f.sourceSeen = make(map[uint64]struct{})
}

// event emits a debugger event if a debugger is attached.
func (f *Frontier) event(eventType, url, source string) {
	if f.debugger == nil {
		return
	}
	values := map[string]string{"url": url}
	if source != "" {
		values["source"] = source
	}
	f.debugger.Event(debug.NewEvent(eventType, values))
}
