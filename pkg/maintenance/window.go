/*
Copyright The FSxOps Contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package maintenance gates mutating storage operations on an operator
// defined maintenance window.
package maintenance

import (
	"fmt"
	"time"

	"github.com/robfig/cron"
)

// DefaultDuration is the window length used when none is configured.
const DefaultDuration = 2 * time.Hour

// cronParser parses 6-field cron expressions
// (second minute hour day-of-month month day-of-week).
var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

// Window is a recurring maintenance window. The zero value means no window
// is configured and every operation is allowed.
type Window struct {
	// Schedule is a 6-field cron expression marking window starts.
	Schedule string

	// Duration is how long each window stays open.
	Duration time.Duration

	// Timezone is an IANA zone name, UTC when empty.
	Timezone string
}

// Configured reports whether a window has been set.
func (w Window) Configured() bool {
	return w.Schedule != ""
}

// IsOpen reports whether now falls inside the window. An unconfigured
// window is always open.
func (w Window) IsOpen(now time.Time) (bool, error) {
	if !w.Configured() {
		return true, nil
	}

	schedule, err := cronParser.Parse(w.Schedule)
	if err != nil {
		return false, fmt.Errorf("invalid maintenance schedule %q: %w", w.Schedule, err)
	}

	loc := time.UTC
	if w.Timezone != "" {
		loc, err = time.LoadLocation(w.Timezone)
		if err != nil {
			return false, fmt.Errorf("invalid maintenance timezone %q: %w", w.Timezone, err)
		}
	}

	duration := w.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}

	localNow := now.In(loc)
	start := mostRecentStart(schedule, localNow, 24*time.Hour)
	if start.IsZero() {
		return false, nil
	}

	return localNow.After(start) && localNow.Before(start.Add(duration)), nil
}

// mostRecentStart walks the schedule forward from now-lookback and keeps
// the last start not after now.
func mostRecentStart(schedule cron.Schedule, now time.Time, lookback time.Duration) time.Time {
	var mostRecent time.Time

	t := now.Add(-lookback)
	for {
		next := schedule.Next(t)
		if next.IsZero() || next.After(now) {
			return mostRecent
		}
		mostRecent = next
		t = next
	}
}
