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
	"errors"
	"fmt"
	"strings"

	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// Errors returned by NormalizeURL for hrefs that are not crawlable links.
// They let callers distinguish why an href contributed nothing instead of
// swallowing every failure the same way.
var (
	// ErrEmptyHref is returned for empty or whitespace-only href values
	ErrEmptyHref = errors.New("empty href")
	// ErrFragmentOnly is returned for pure-fragment hrefs like "#section"
	ErrFragmentOnly = errors.New("fragment-only href")
	// ErrSchemeNotCrawlable is returned for mailto:, tel: and javascript: hrefs
	ErrSchemeNotCrawlable = errors.New("scheme is not crawlable")
	// ErrMalformedURL is returned when the href cannot be parsed as a URL
	ErrMalformedURL = errors.New("malformed URL")
)

// nonCrawlableSchemes are href prefixes that never produce a fetchable URL.
var nonCrawlableSchemes = []string{"mailto:", "tel:", "javascript:"}

// NormalizeURL resolves an href found on pageURL into its canonical absolute
// form: scheme://host/path[?query], never carrying a fragment. Relative
// references are resolved against pageURL using standard URL-resolution rules
// (dot segments removed, default ports elided, host lowercased). The query
// string is preserved verbatim when present.
//
// pageURL may be empty when href is already absolute. Hrefs that are empty,
// fragment-only, mailto:, tel: or javascript: are rejected with a typed error
// rather than normalized; unparseable hrefs return ErrMalformedURL.
func NormalizeURL(href, pageURL string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", ErrEmptyHref
	}
	if strings.HasPrefix(href, "#") {
		return "", ErrFragmentOnly
	}
	lower := strings.ToLower(href)
	for _, scheme := range nonCrawlableSchemes {
		if strings.HasPrefix(lower, scheme) {
			return "", fmt.Errorf("%w: %s", ErrSchemeNotCrawlable, strings.TrimSuffix(scheme, ":"))
		}
	}

	var (
		u   *whatwgUrl.Url
		err error
	)
	if pageURL == "" {
		u, err = urlParser.Parse(href)
	} else {
		u, err = urlParser.ParseRef(pageURL, href)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}

	// Href(true) excludes the fragment from the serialized URL
	return u.Href(true), nil
}

// hostOf returns the host (hostname, plus port when non-default) of a URL,
// or an empty string if the URL cannot be parsed.
func hostOf(rawURL string) string {
	u, err := urlParser.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host()
}

// originOf returns the scheme://host origin of a URL with no trailing slash,
// or an error if the URL cannot be parsed.
func originOf(rawURL string) (string, error) {
	u, err := urlParser.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	return u.Scheme() + "://" + u.Host(), nil
}
