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
	"bytes"
	"io"
	"net/http"
	"sync"
)

// MockResponse represents a canned HTTP response served by MockTransport.
type MockResponse struct {
	// StatusCode is the HTTP status code to return (default: 200)
	StatusCode int
	// Body is the raw response body; bytes so gzip-compressed sitemap
	// fixtures can be registered directly
	Body []byte
	// Headers are the HTTP headers to include in the response
	Headers http.Header
	// Error simulates a network error instead of returning a response
	Error error
}

// MockTransport implements http.RoundTripper for network-free tests of the
// sitemap resolver. Unregistered URLs get a 404.
type MockTransport struct {
	mu        sync.RWMutex
	responses map[string]*MockResponse
}

// NewMockTransport creates an empty MockTransport.
func NewMockTransport() *MockTransport {
	return &MockTransport{responses: make(map[string]*MockResponse)}
}

// RegisterResponse registers a canned response for an exact URL.
func (m *MockTransport) RegisterResponse(url string, response *MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if response.StatusCode == 0 {
		response.StatusCode = http.StatusOK
	}
	if response.Headers == nil {
		response.Headers = make(http.Header)
	}
	m.responses[url] = response
}

// RegisterXML registers an XML response with status 200 for an exact URL.
func (m *MockTransport) RegisterXML(url, xml string) {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/xml; charset=utf-8")

	m.RegisterResponse(url, &MockResponse{
		StatusCode: http.StatusOK,
		Body:       []byte(xml),
		Headers:    headers,
	})
}

// RegisterError registers a simulated network error for an exact URL.
func (m *MockTransport) RegisterError(url string, err error) {
	m.RegisterResponse(url, &MockResponse{Error: err})
}

// Reset clears all registered responses.
func (m *MockTransport) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = make(map[string]*MockResponse)
}

// RoundTrip implements the http.RoundTripper interface.
func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.RLock()
	mockResp, found := m.responses[req.URL.String()]
	m.mu.RUnlock()

	if !found {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(bytes.NewBufferString("Not Found")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	}

	if mockResp.Error != nil {
		return nil, mockResp.Error
	}

	return &http.Response{
		StatusCode:    mockResp.StatusCode,
		Body:          io.NopCloser(bytes.NewReader(mockResp.Body)),
		Header:        mockResp.Headers.Clone(),
		Request:       req,
		ContentLength: int64(len(mockResp.Body)),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
	}, nil
}
