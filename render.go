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
	"net/http"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromedpRenderer implements Renderer with a headless Chrome browser. It is
// used for sitemaps served behind JavaScript challenges, where a plain fetch
// only sees the interstitial page. Each Render call runs in its own browser
// context off a shared allocator; each context costs real memory, so callers
// share one renderer per process.
type ChromedpRenderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
}

// NewChromedpRenderer creates a renderer with a headless browser allocator.
// timeout bounds each Render call; zero means 30 seconds.
func NewChromedpRenderer(timeout time.Duration) *ChromedpRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	r := &ChromedpRenderer{timeout: timeout}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return r
}

// Render navigates to the URL, waits for the body to be ready and returns the
// rendered HTML. The browser does not surface the HTTP status of the main
// document without network-event tracking, so a successful render reports
// http.StatusOK; callers treat any error as a signal to fall back to a plain
// fetch.
func (r *ChromedpRenderer) Render(url string) (int, string, error) {
	ctx, cancel := chromedp.NewContext(r.allocCtx)
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var htmlContent string
	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return 0, "", err
	}

	return http.StatusOK, htmlContent, nil
}

// Close releases the browser allocator.
func (r *ChromedpRenderer) Close() {
	if r.allocCancel != nil {
		r.allocCancel()
	}
}
