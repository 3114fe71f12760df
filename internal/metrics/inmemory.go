package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered       uint64
	AuthAccepted          uint64
	AuthRejected          uint64
	HospitalsCreated      uint64
	HospitalsDeleted      uint64
	DoctorsCreated        uint64
	DoctorsDeleted        uint64
	Searches              uint64
	SearchResults         uint64
	SearchDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests and the metrics endpoint.
type InMemoryRecorder struct {
	usersRegistered       atomic.Uint64
	authAccepted          atomic.Uint64
	authRejected          atomic.Uint64
	hospitalsCreated      atomic.Uint64
	hospitalsDeleted      atomic.Uint64
	doctorsCreated        atomic.Uint64
	doctorsDeleted        atomic.Uint64
	searches              atomic.Uint64
	searchResults         atomic.Uint64
	searchDurationTotalNs atomic.Int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:       m.usersRegistered.Load(),
		AuthAccepted:          m.authAccepted.Load(),
		AuthRejected:          m.authRejected.Load(),
		HospitalsCreated:      m.hospitalsCreated.Load(),
		HospitalsDeleted:      m.hospitalsDeleted.Load(),
		DoctorsCreated:        m.doctorsCreated.Load(),
		DoctorsDeleted:        m.doctorsDeleted.Load(),
		Searches:              m.searches.Load(),
		SearchResults:         m.searchResults.Load(),
		SearchDurationTotalNs: m.searchDurationTotalNs.Load(),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	m.usersRegistered.Add(1)
}

// IncAuthAttempt increments the counter for the given outcome.
// Unknown outcomes count as rejected.
func (m *InMemoryRecorder) IncAuthAttempt(outcome string) {
	if outcome == AuthAccepted {
		m.authAccepted.Add(1)
		return
	}
	m.authRejected.Add(1)
}

func (m *InMemoryRecorder) IncHospitalCreated() {
	m.hospitalsCreated.Add(1)
}

func (m *InMemoryRecorder) IncHospitalDeleted() {
	m.hospitalsDeleted.Add(1)
}

func (m *InMemoryRecorder) IncDoctorCreated() {
	m.doctorsCreated.Add(1)
}

// IncDoctorDeleted adds count removed doctors. Cascading hospital deletes
// report more than one.
func (m *InMemoryRecorder) IncDoctorDeleted(count int) {
	if count <= 0 {
		return
	}
	m.doctorsDeleted.Add(uint64(count))
}

// ObserveSearch records one search and its result count.
func (m *InMemoryRecorder) ObserveSearch(results int, duration time.Duration) {
	m.searches.Add(1)
	if results > 0 {
		m.searchResults.Add(uint64(results))
	}
	m.searchDurationTotalNs.Add(duration.Nanoseconds())
}
