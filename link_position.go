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
	"strconv"
	"strings"
)

// Placement is the coarse classification of where a link appears in a page's
// structure.
type Placement string

const (
	// PlacementNavigation covers links in nav, header, menu and similar areas
	PlacementNavigation Placement = "navigation"
	// PlacementFooter covers links inside a page footer
	PlacementFooter Placement = "footer"
	// PlacementBody covers everything else
	PlacementBody Placement = "body"
)

// AncestorNode describes one element on the path from a link up to the
// document root. It is the abstract shape of a DOM node the analyzer needs;
// any HTML parser can supply it (see AncestorChainOf for the goquery adapter)
// and tests can construct chains synthetically.
type AncestorNode struct {
	// Tag is the lowercase element name, e.g. "a", "div", "footer"
	Tag string
	// ID is the element's id attribute, empty if absent
	ID string
	// Classes are the element's class names
	Classes []string
	// Index is the 1-based position among same-tag element siblings
	Index int
	// SiblingCount is the number of same-tag element siblings, including the
	// element itself
	SiblingCount int
}

// AncestorChain is the ordered sequence of elements from a link element
// (first) up to the document root (last).
type AncestorChain []AncestorNode

// ClassifyPlacement determines where on the page a link is placed by walking
// its ancestor chain. Each ancestor is checked for footer markers before
// navigation markers, so a menu inside a footer still classifies as footer.
// Links outside any navigation or footer container classify as body.
func ClassifyPlacement(chain AncestorChain) Placement {
	if len(chain) == 0 {
		return PlacementBody
	}

	for _, node := range chain[1:] {
		if node.Tag == "" {
			continue
		}

		attrs := strings.ToLower(strings.Join(node.Classes, " ") + " " + node.ID)

		if node.Tag == "footer" || strings.Contains(attrs, "footer") {
			return PlacementFooter
		}

		if node.Tag == "nav" || node.Tag == "header" {
			return PlacementNavigation
		}
		for _, keyword := range []string{"nav", "menu", "header"} {
			if strings.Contains(attrs, keyword) {
				return PlacementNavigation
			}
		}
	}

	return PlacementBody
}

// BuildLinkPath produces an XPath-like locator for a link from its ancestor
// chain, in the form used by desktop SEO crawlers:
//
//	//body/div[@id='content']/p[2]/a
//
// Elements with an id use an [@id='...'] predicate; elements that share their
// tag with siblings use a 1-based index. The path starts at body and the html
// element is never included. Returns an empty string for an empty chain.
func BuildLinkPath(chain AncestorChain) string {
	var parts []string

	for _, node := range chain {
		if node.Tag == "" || node.Tag == "html" {
			break
		}

		segment := node.Tag
		if node.ID != "" {
			segment += "[@id='" + node.ID + "']"
		} else if node.SiblingCount > 1 && node.Index > 0 {
			segment += "[" + strconv.Itoa(node.Index) + "]"
		}

		parts = append([]string{segment}, parts...)

		if node.Tag == "body" {
			break
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return "//" + strings.Join(parts, "/")
}
