package service

import (
	"strings"
	"time"
)

type Option func(*options)

type options struct {
	now func() time.Time
}

func defaultOptions() options {
	return options{now: time.Now}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// stamp is the current UTC time at storage precision.
func (o options) stamp() time.Time {
	return o.now().UTC().Truncate(time.Microsecond)
}

// touch returns an update stamp strictly after prev.
func (o options) touch(prev *time.Time) *time.Time {
	s := o.stamp()
	if prev != nil && !s.After(*prev) {
		s = prev.Add(time.Microsecond)
	}
	return &s
}

func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func nextSortOrder(maxOrder int) int {
	if maxOrder < 0 {
		return 1
	}
	return maxOrder + 1
}
