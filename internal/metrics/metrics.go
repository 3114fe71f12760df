// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Authentication outcomes.
const (
	AuthAccepted = "accepted"
	AuthRejected = "rejected"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncAuthAttempt(outcome string) // outcome: AuthAccepted or AuthRejected

	// Registry metrics
	IncHospitalCreated()
	IncHospitalDeleted()
	IncDoctorCreated()
	IncDoctorDeleted(count int)

	// Search metrics
	ObserveSearch(results int, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
