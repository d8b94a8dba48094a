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
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/georgi-donchev-ffw/LibreCrawl/debug"
)

// VisitFunc processes one dequeued frontier entry. It typically fetches the
// page, records its links into a LinkGraph and admits them back into the
// frontier. A returned error marks the entry failed but never stops the pool.
type VisitFunc func(ctx context.Context, entry Entry) error

// CrawlPool drains a Frontier with a fixed number of worker goroutines.
// Workers may admit new URLs during their visit; the pool keeps draining
// until the frontier is empty and no visit is in flight.
type CrawlPool struct {
	frontier   *Frontier
	visit      VisitFunc
	maxWorkers int
	debugger   debug.Debugger
}

// NewCrawlPool creates a pool over the given frontier. maxWorkers values
// below 1 are clamped to 1.
func NewCrawlPool(frontier *Frontier, visit VisitFunc, maxWorkers int) *CrawlPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &CrawlPool{frontier: frontier, visit: visit, maxWorkers: maxWorkers}
}

// SetDebugger attaches a debugger that receives per-visit failure events.
func (p *CrawlPool) SetDebugger(d debug.Debugger) {
	d.Init()
	p.debugger = d
}

// Run dispatches frontier entries to the workers until the frontier is
// drained or ctx is cancelled. Every dequeued entry is marked visited whether
// or not its visit succeeds, so failed URLs are not retried. Returns the
// context error on cancellation, nil on a full drain.
func (p *CrawlPool) Run(ctx context.Context) error {
	work := make(chan Entry)
	var wg sync.WaitGroup
	var inflight atomic.Int64

	for i := 0; i < p.maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range work {
				if err := p.visit(ctx, entry); err != nil && p.debugger != nil {
					p.debugger.Event(debug.NewEvent("visit_error", map[string]string{
						"url":    entry.URL,
						"reason": err.Error(),
					}))
				}
				p.frontier.MarkVisited(entry.URL)
				inflight.Add(-1)
			}
		}()
	}

	var runErr error
dispatch:
	for {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			break dispatch
		default:
		}

		entry, ok := p.frontier.Dequeue()
		if !ok {
			if inflight.Load() == 0 {
				break
			}
			// in-flight visits may still admit more URLs
			time.Sleep(5 * time.Millisecond)
			continue
		}

		inflight.Add(1)
		select {
		case work <- entry:
		case <-ctx.Done():
			inflight.Add(-1)
			runErr = ctx.Err()
			break dispatch
		}
	}

	close(work)
	wg.Wait()
	return runErr
}
