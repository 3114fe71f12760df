package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestInMemoryRecorder_Counters(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.IncUserRegistered()
	m.IncAuthAttempt(AuthAccepted)
	m.IncAuthAttempt(AuthRejected)
	m.IncAuthAttempt("bogus")
	m.IncHospitalCreated()
	m.IncHospitalDeleted()
	m.IncDoctorCreated()
	m.IncDoctorDeleted(3)
	m.IncDoctorDeleted(0)
	m.ObserveSearch(2, 5*time.Millisecond)
	m.ObserveSearch(0, time.Millisecond)

	got := m.Snapshot()
	want := Snapshot{
		UsersRegistered:       1,
		AuthAccepted:          1,
		AuthRejected:          2,
		HospitalsCreated:      1,
		HospitalsDeleted:      1,
		DoctorsCreated:        1,
		DoctorsDeleted:        3,
		Searches:              2,
		SearchResults:         2,
		SearchDurationTotalNs: (6 * time.Millisecond).Nanoseconds(),
	}
	if got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
}

func TestInMemoryRecorder_Concurrent(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncDoctorCreated()
		}()
	}
	wg.Wait()

	if got := m.Snapshot().DoctorsCreated; got != 50 {
		t.Errorf("DoctorsCreated = %d, want 50", got)
	}
}

func TestNoopRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder = NewNoop()
	r.IncUserRegistered()
	r.IncDoctorDeleted(4)
	r.ObserveSearch(1, time.Second)
}
