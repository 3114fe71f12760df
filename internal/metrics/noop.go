package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncAuthAttempt is a no-op.
func (n *NoopRecorder) IncAuthAttempt(outcome string) {}

// IncHospitalCreated is a no-op.
func (n *NoopRecorder) IncHospitalCreated() {}

// IncHospitalDeleted is a no-op.
func (n *NoopRecorder) IncHospitalDeleted() {}

// IncDoctorCreated is a no-op.
func (n *NoopRecorder) IncDoctorCreated() {}

// IncDoctorDeleted is a no-op.
func (n *NoopRecorder) IncDoctorDeleted(count int) {}

// ObserveSearch is a no-op.
func (n *NoopRecorder) ObserveSearch(results int, duration time.Duration) {}
