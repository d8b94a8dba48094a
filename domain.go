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

import "strings"

// CleanHost lowercases a hostname and strips a single leading "www." prefix,
// so that "www.example.com" and "example.com" compare equal.
func CleanHost(host string) string {
	host = strings.ToLower(host)
	return strings.TrimPrefix(host, "www.")
}

// IsInternal reports whether rawURL points at the configured base domain.
// Both hosts are compared after lowercasing and stripping one leading "www.".
//
// An empty base domain classifies every URL as external. This is a safety
// default for unconfigured crawls: a URL with no resolvable host must never
// accidentally match an unconfigured base domain.
func IsInternal(rawURL, baseDomain string) bool {
	urlHost := CleanHost(hostOf(rawURL))
	baseHost := CleanHost(baseDomain)

	return urlHost != "" && baseHost != "" && urlHost == baseHost
}
