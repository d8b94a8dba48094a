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

// Package debug provides optional event sinks for crawl-state components.
// Components emit events for skipped sitemap candidates, frontier admissions
// and similar state transitions; with no debugger configured nothing is logged.
package debug

import (
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"
)

// Event represents a single state-transition event emitted by a component.
type Event struct {
	// Type is the event type, e.g. "admit", "dequeue", "sitemap_skip"
	Type string
	// Values contains event-specific key-value details
	Values map[string]string
}

// Debugger is an interface for different debugging backends
type Debugger interface {
	// Init initializes the backend
	Init() error
	// Event receives a new event
	Event(e *Event)
}

// NewEvent returns a new Event with the given type and details.
func NewEvent(eventType string, values map[string]string) *Event {
	return &Event{
		Type:   eventType,
		Values: values,
	}
}

// LogDebugger is the simplest debugger which prints events to STDERR
type LogDebugger struct {
	// Output is the log destination, anything can be used which implements them
	// io.Writer interface. Leave it blank to use STDERR
	Output io.Writer
	// Prefix appears at the beginning of each generated log line
	Prefix string
	// Flag defines the logging properties.
	Flag int
	// logger is the standard logger used to log messages
	logger *log.Logger
	// counter is the incrementing event counter
	counter int32
	// start is the start time of the debugger
	start time.Time
}

// Init initializes the LogDebugger
func (l *LogDebugger) Init() error {
	l.counter = 0
	l.start = time.Now()
	if l.Output == nil {
		l.Output = os.Stderr
	}
	l.logger = log.New(l.Output, l.Prefix, l.Flag)
	return nil
}

// Event receives Event objects and prints them to the configured output
func (l *LogDebugger) Event(e *Event) {
	i := atomic.AddInt32(&l.counter, 1)
	l.logger.Printf("[%06d] [%6s] %q (%s)\n", i, e.Type, e.Values, time.Since(l.start))
}
