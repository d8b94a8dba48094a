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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodyChain() AncestorChain {
	return AncestorChain{
		{Tag: "a", Index: 1, SiblingCount: 1},
		{Tag: "p", Index: 1, SiblingCount: 1},
		{Tag: "body", Index: 1, SiblingCount: 1},
		{Tag: "html"},
	}
}

func TestRecordLinkBasics(t *testing.T) {
	g := NewLinkGraph("shop.test", nil)

	recorded := g.RecordLink("https://shop.test/a", "/b", "B", bodyChain())
	require.True(t, recorded)

	links := g.Links()
	require.Len(t, links, 1)

	link := links[0]
	assert.Equal(t, "https://shop.test/a", link.SourceURL)
	assert.Equal(t, "https://shop.test/b", link.TargetURL)
	assert.Equal(t, "B", link.AnchorText)
	assert.True(t, link.IsInternal)
	assert.Equal(t, "shop.test", link.TargetDomain)
	assert.Nil(t, link.TargetStatus)
	assert.Equal(t, PlacementBody, link.Placement)
	assert.Equal(t, "//body/p/a", link.LinkPath)
}

func TestRecordLinkRejectsNonCrawlableHrefs(t *testing.T) {
	g := NewLinkGraph("shop.test", nil)

	assert.False(t, g.RecordLink("https://shop.test/a", "", "x", nil))
	assert.False(t, g.RecordLink("https://shop.test/a", "#top", "x", nil))
	assert.False(t, g.RecordLink("https://shop.test/a", "mailto:x@shop.test", "x", nil))
	assert.False(t, g.RecordLink("https://shop.test/a", "tel:+15551234", "x", nil))
	assert.Equal(t, 0, g.Len())
}

func TestRecordLinkFirstOccurrenceWins(t *testing.T) {
	g := NewLinkGraph("shop.test", nil)

	footerChain := AncestorChain{
		{Tag: "a", Index: 1, SiblingCount: 1},
		{Tag: "footer", Index: 1, SiblingCount: 1},
		{Tag: "body"},
	}

	require.True(t, g.RecordLink("https://shop.test/a", "/b", "first text", bodyChain()))
	// same (source, target) with different anchor, placement and spelling
	assert.False(t, g.RecordLink("https://shop.test/a", "/b#frag", "second text", footerChain))
	assert.False(t, g.RecordLink("https://shop.test/a", "/b", "third", bodyChain()))

	links := g.Links()
	require.Len(t, links, 1)
	assert.Equal(t, "first text", links[0].AnchorText)
	assert.Equal(t, PlacementBody, links[0].Placement)
	assert.Equal(t, "//body/p/a", links[0].LinkPath)
}

func TestRecordLinkSameTargetFromTwoSources(t *testing.T) {
	g := NewLinkGraph("shop.test", nil)

	assert.True(t, g.RecordLink("https://shop.test/a", "/b", "B", bodyChain()))
	assert.True(t, g.RecordLink("https://shop.test/c", "/b", "B", bodyChain()))
	assert.Equal(t, 2, g.Len())
}

func TestRecordLinkAnchorTextCleanup(t *testing.T) {
	g := NewLinkGraph("shop.test", nil)

	g.RecordLink("https://shop.test/a", "/empty", "", bodyChain())
	g.RecordLink("https://shop.test/a", "/spaces", "  \n\t ", bodyChain())
	g.RecordLink("https://shop.test/a", "/markup", "Read <b>more</b>   here", bodyChain())
	g.RecordLink("https://shop.test/a", "/long", strings.Repeat("x", 250), bodyChain())

	links := g.Links()
	require.Len(t, links, 4)
	assert.Equal(t, "(no text)", links[0].AnchorText)
	assert.Equal(t, "(no text)", links[1].AnchorText)
	assert.Equal(t, "Read more here", links[2].AnchorText)
	assert.Len(t, links[3].AnchorText, 100)
}

func TestRecordLinkExternalTarget(t *testing.T) {
	g := NewLinkGraph("shop.test", nil)

	require.True(t, g.RecordLink("https://shop.test/a", "https://other.test/c", "C", bodyChain()))

	links := g.Links()
	require.Len(t, links, 1)
	assert.False(t, links[0].IsInternal)
	assert.Equal(t, "other.test", links[0].TargetDomain)
}

func TestRecordLinkFeedsSourceIndex(t *testing.T) {
	f := NewFrontier()
	g := NewLinkGraph("shop.test", f)

	g.RecordLink("https://shop.test/a", "/b", "B", bodyChain())
	g.RecordLink("https://shop.test/c", "/b", "B again", bodyChain())
	// duplicate edge still must not duplicate the source
	g.RecordLink("https://shop.test/a", "/b", "B", bodyChain())

	sources := f.LinkedFrom("https://shop.test/b")
	require.Equal(t, []string{"https://shop.test/a", "https://shop.test/c"}, sources)
}

func TestBackfillStatuses(t *testing.T) {
	g := NewLinkGraph("shop.test", nil)

	g.RecordLink("https://shop.test/a", "/b", "B", bodyChain())
	g.RecordLink("https://shop.test/a", "/c", "C", bodyChain())
	g.RecordLink("https://shop.test/a", "https://other.test/d", "D", bodyChain())

	g.BackfillStatuses([]CrawlResult{
		{URL: "https://shop.test/b", StatusCode: 200},
		{URL: "https://shop.test/unrelated", StatusCode: 500},
	})

	links := g.Links()
	require.Len(t, links, 3)
	require.NotNil(t, links[0].TargetStatus)
	assert.Equal(t, 200, *links[0].TargetStatus)
	assert.Nil(t, links[1].TargetStatus, "unfetched target stays unknown")
	assert.Nil(t, links[2].TargetStatus)

	// a later pass adds and refreshes but never removes
	g.BackfillStatuses([]CrawlResult{
		{URL: "https://shop.test/b", StatusCode: 301},
		{URL: "https://shop.test/c", StatusCode: 404},
	})

	links = g.Links()
	assert.Equal(t, 301, *links[0].TargetStatus)
	require.NotNil(t, links[1].TargetStatus)
	assert.Equal(t, 404, *links[1].TargetStatus)
}

func TestLinksReturnsSnapshot(t *testing.T) {
	g := NewLinkGraph("shop.test", nil)
	g.RecordLink("https://shop.test/a", "/b", "B", bodyChain())

	snapshot := g.Links()
	g.BackfillStatuses([]CrawlResult{{URL: "https://shop.test/b", StatusCode: 200}})

	assert.Nil(t, snapshot[0].TargetStatus, "snapshot must not observe later backfills")
}

func TestLinkGraphReset(t *testing.T) {
	g := NewLinkGraph("shop.test", nil)
	g.RecordLink("https://shop.test/a", "/b", "B", bodyChain())

	g.Reset()
	assert.Equal(t, 0, g.Len())

	// the same edge is recordable again after a reset
	assert.True(t, g.RecordLink("https://shop.test/a", "/b", "B", bodyChain()))
}

func TestRecordLinkConcurrentDedup(t *testing.T) {
	g := NewLinkGraph("shop.test", nil)

	const workers = 32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.RecordLink("https://shop.test/a", "/contested", "text", bodyChain())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, g.Len())
}

// TestCrawlStateEndToEnd exercises the frontier and link graph together the
// way a page-fetch worker does: record both links of a page, then admit them
// under the driver's eligibility policy.
func TestCrawlStateEndToEnd(t *testing.T) {
	f := NewFrontier()
	g := NewLinkGraph("shop.test", f)

	page := "https://shop.test/a"

	require.True(t, g.RecordLink(page, "/b", "B", bodyChain()))
	require.True(t, g.RecordLink(page, "https://other.test/c", "C", bodyChain()))

	links := g.Links()
	require.Len(t, links, 2)
	assert.True(t, links[0].IsInternal)
	assert.Equal(t, "https://shop.test/b", links[0].TargetURL)
	assert.False(t, links[1].IsInternal)
	assert.Equal(t, "https://other.test/c", links[1].TargetURL)

	internalOnly := func(url string, depth int) bool {
		return IsInternal(url, "shop.test")
	}

	assert.True(t, f.Admit("/b", page, 1, internalOnly))
	assert.False(t, f.Admit("https://other.test/c", page, 1, internalOnly))

	entry, ok := f.Dequeue()
	require.True(t, ok)
	assert.Equal(t, Entry{URL: "https://shop.test/b", Depth: 1}, entry)
	_, ok = f.Dequeue()
	assert.False(t, ok)
}
