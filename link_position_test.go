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

import "testing"

func TestClassifyPlacement(t *testing.T) {
	tests := []struct {
		name     string
		chain    AncestorChain
		expected Placement
	}{
		{
			name: "link in plain body content",
			chain: AncestorChain{
				{Tag: "a"},
				{Tag: "p"},
				{Tag: "div"},
				{Tag: "body"},
			},
			expected: PlacementBody,
		},
		{
			name: "link in nav element",
			chain: AncestorChain{
				{Tag: "a"},
				{Tag: "li"},
				{Tag: "ul"},
				{Tag: "nav"},
				{Tag: "body"},
			},
			expected: PlacementNavigation,
		},
		{
			name: "link in header element",
			chain: AncestorChain{
				{Tag: "a"},
				{Tag: "header"},
				{Tag: "body"},
			},
			expected: PlacementNavigation,
		},
		{
			name: "link in footer element",
			chain: AncestorChain{
				{Tag: "a"},
				{Tag: "footer"},
				{Tag: "body"},
			},
			expected: PlacementFooter,
		},
		{
			name: "footer by class",
			chain: AncestorChain{
				{Tag: "a"},
				{Tag: "div", Classes: []string{"site-footer"}},
				{Tag: "body"},
			},
			expected: PlacementFooter,
		},
		{
			name: "footer by id",
			chain: AncestorChain{
				{Tag: "a"},
				{Tag: "div", ID: "pageFooter"},
				{Tag: "body"},
			},
			expected: PlacementFooter,
		},
		{
			name: "navigation by menu class",
			chain: AncestorChain{
				{Tag: "a"},
				{Tag: "div", Classes: []string{"main-menu"}},
				{Tag: "body"},
			},
			expected: PlacementNavigation,
		},
		{
			name: "navigation by nav class",
			chain: AncestorChain{
				{Tag: "a"},
				{Tag: "div", Classes: []string{"navbar", "sticky"}},
				{Tag: "body"},
			},
			expected: PlacementNavigation,
		},
		{
			name: "nav inside footer classifies as footer",
			chain: AncestorChain{
				{Tag: "a"},
				{Tag: "nav", Classes: []string{"footer-links"}},
				{Tag: "footer"},
				{Tag: "body"},
			},
			expected: PlacementFooter,
		},
		{
			name: "anchor's own classes are ignored",
			chain: AncestorChain{
				{Tag: "a", Classes: []string{"nav-link"}},
				{Tag: "p"},
				{Tag: "body"},
			},
			expected: PlacementBody,
		},
		{
			name:     "empty chain defaults to body",
			chain:    nil,
			expected: PlacementBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyPlacement(tt.chain); got != tt.expected {
				t.Errorf("ClassifyPlacement() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBuildLinkPath(t *testing.T) {
	tests := []struct {
		name     string
		chain    AncestorChain
		expected string
	}{
		{
			name: "simple path",
			chain: AncestorChain{
				{Tag: "a", Index: 1, SiblingCount: 1},
				{Tag: "p", Index: 1, SiblingCount: 1},
				{Tag: "body", Index: 1, SiblingCount: 1},
				{Tag: "html"},
			},
			expected: "//body/p/a",
		},
		{
			name: "id predicate is preferred over index",
			chain: AncestorChain{
				{Tag: "a", Index: 1, SiblingCount: 1},
				{Tag: "div", ID: "content", Index: 2, SiblingCount: 3},
				{Tag: "body"},
			},
			expected: "//body/div[@id='content']/a",
		},
		{
			name: "sibling index for repeated tags",
			chain: AncestorChain{
				{Tag: "a", Index: 1, SiblingCount: 1},
				{Tag: "p", Index: 2, SiblingCount: 3},
				{Tag: "body"},
			},
			expected: "//body/p[2]/a",
		},
		{
			name: "single sibling omits index",
			chain: AncestorChain{
				{Tag: "a", Index: 1, SiblingCount: 2},
				{Tag: "li", Index: 3, SiblingCount: 5},
				{Tag: "ul", Index: 1, SiblingCount: 1},
				{Tag: "body"},
			},
			expected: "//body/ul/li[3]/a[1]",
		},
		{
			name: "html element never appears",
			chain: AncestorChain{
				{Tag: "a"},
				{Tag: "body"},
				{Tag: "html"},
			},
			expected: "//body/a",
		},
		{
			name:     "empty chain",
			chain:    nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildLinkPath(tt.chain); got != tt.expected {
				t.Errorf("BuildLinkPath() = %q, want %q", got, tt.expected)
			}
		})
	}
}
