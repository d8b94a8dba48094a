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

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// PageLink is one anchor element found on a parsed page, in the shape the
// frontier and link graph consume: the raw href, the anchor text, and the
// element's ancestor chain for placement/path analysis.
type PageLink struct {
	Href       string
	AnchorText string
	Chain      AncestorChain
}

// ExtractPageLinks walks every a[href] element of a parsed page and returns
// them as PageLinks. The hrefs are returned raw; normalization happens when
// they are fed to Frontier.Admit or LinkGraph.RecordLink.
func ExtractPageLinks(doc *goquery.Document) []PageLink {
	var links []PageLink

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		links = append(links, PageLink{
			Href:       href,
			AnchorText: strings.TrimSpace(sel.Text()),
			Chain:      AncestorChainOf(sel),
		})
	})

	return links
}

// AncestorChainOf builds the abstract ancestor chain for an element: the
// element itself first, then each parent up to and excluding the document
// root. Sibling indexes count element siblings with the same tag only, so the
// chain carries what BuildLinkPath needs for positional segments.
func AncestorChainOf(sel *goquery.Selection) AncestorChain {
	var chain AncestorChain

	for current := sel; current.Length() > 0; current = current.Parent() {
		tag := goquery.NodeName(current)
		if tag == "" || strings.HasPrefix(tag, "#") {
			break
		}

		node := AncestorNode{Tag: tag}
		if id, ok := current.Attr("id"); ok {
			node.ID = id
		}
		if class, ok := current.Attr("class"); ok {
			node.Classes = strings.Fields(class)
		}
		node.Index, node.SiblingCount = siblingPosition(current, tag)

		chain = append(chain, node)

		if tag == "html" {
			break
		}
	}

	return chain
}

// siblingPosition returns the element's 1-based position among same-tag
// element siblings and the total count of those siblings.
func siblingPosition(sel *goquery.Selection, tag string) (index, count int) {
	parent := sel.Parent()
	if parent.Length() == 0 {
		return 1, 1
	}

	self := sel.Get(0)
	parent.Children().Each(func(_ int, sib *goquery.Selection) {
		var node *html.Node
		if sib.Length() > 0 {
			node = sib.Get(0)
		}
		if goquery.NodeName(sib) != tag {
			return
		}
		count++
		if node == self {
			index = count
		}
	})

	if count == 0 {
		return 1, 1
	}
	return index, count
}
