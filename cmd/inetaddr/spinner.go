// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Yet another (braille) spinner.

package main

import (
	"sync"
	"time"
)

// spinner is yet another blindingly simple spinner; just enough to get the job
// done, no bells, no frills.
type spinner struct {
	phases   []string
	done     chan struct{}
	mu       sync.Mutex
	phase    int
	stopOnce sync.Once
}

// newSpinner returns a new spinner; later call the Start method to make it
// spinning, and the Stop method to stop it and release background resources.
func newSpinner() *spinner {
	phases := []string{}
	for _, r := range "⠋⠙⠸⠴⠦⠇" {
		phases = append(phases, string(r)+" ")
	}
	return &spinner{
		phases: phases,
		done:   make(chan struct{}),
	}
}

// Spinner returns the spinner string for the current phase.
func (s *spinner) Spinner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phases[s.phase]
}

// step advances the spinner to its next phase, wrapping around.
func (s *spinner) step() {
	s.mu.Lock()
	s.phase = (s.phase + 1) % len(s.phases)
	s.mu.Unlock()
}

// Start the spinner to spin in steps every specified interval.
func (s *spinner) Start(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.step()
			case <-s.done:
				return
			}
		}
	}()
}

// Stop the spinner and release the background resources. Stop can be called
// multiple times.
func (s *spinner) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}
