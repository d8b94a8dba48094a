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
	"fmt"

	"github.com/gobwas/glob"
)

// EligibilityConfig builds the standard crawl-eligibility predicate from a
// depth cap and URL glob patterns. The frontier accepts any EligibilityFunc;
// this is a convenience for drivers whose policy is pattern-and-depth shaped.
type EligibilityConfig struct {
	// MaxDepth rejects URLs discovered deeper than this many hops.
	// Zero means no depth limit.
	MaxDepth int
	// IncludePatterns are glob patterns a URL must match to be eligible.
	// An empty list admits every URL not excluded.
	IncludePatterns []string
	// ExcludePatterns are glob patterns that reject a URL. Exclusion wins
	// over inclusion.
	ExcludePatterns []string
}

// Build compiles the configured patterns once and returns the predicate.
// Returns an error if any pattern fails to compile.
func (c *EligibilityConfig) Build() (EligibilityFunc, error) {
	includes, err := compileGlobs(c.IncludePatterns)
	if err != nil {
		return nil, err
	}
	excludes, err := compileGlobs(c.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	maxDepth := c.MaxDepth

	return func(url string, depth int) bool {
		if maxDepth > 0 && depth > maxDepth {
			return false
		}
		for _, g := range excludes {
			if g.Match(url) {
				return false
			}
		}
		if len(includes) == 0 {
			return true
		}
		for _, g := range includes {
			if g.Match(url) {
				return true
			}
		}
		return false
	}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid URL pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}
