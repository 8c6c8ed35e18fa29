// Package health describes the running process for the health endpoints.
package health

import (
	"os"
	"time"
)

type InfoProvider interface {
	Version() string
	Environment() string
	MachineName() string
	ProcessID() int
	Now() time.Time
}

// Info is an InfoProvider with values fixed at startup.
type Info struct {
	version     string
	environment string
	machineName string
	processID   int
	clock       func() time.Time
}

// NewInfo reads the host name and pid of the current process. An unreadable
// host name is reported as "unknown".
func NewInfo(version, environment string) *Info {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return &Info{
		version:     version,
		environment: environment,
		machineName: host,
		processID:   os.Getpid(),
		clock:       time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (i *Info) WithClock(now func() time.Time) *Info {
	i.clock = now
	return i
}

func (i *Info) Version() string     { return i.version }
func (i *Info) Environment() string { return i.environment }
func (i *Info) MachineName() string { return i.machineName }
func (i *Info) ProcessID() int      { return i.processID }
func (i *Info) Now() time.Time      { return i.clock().UTC() }
