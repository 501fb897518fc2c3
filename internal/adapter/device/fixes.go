package device

import (
	"sync"
	"time"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
)

type entry struct {
	fix    models.DeviceFix
	denied bool
}

// FixStore keeps the last geolocation report of each driver device.
// A denial or a fix older than the TTL counts as no data.
type FixStore struct {
	mu    sync.RWMutex
	fixes map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

func NewFixStore(ttl time.Duration) *FixStore {
	return &FixStore{
		fixes: make(map[string]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// WithClock replaces the time source, used by tests.
func (s *FixStore) WithClock(now func() time.Time) *FixStore {
	s.now = now
	return s
}

// Report stores a fix received from the device of the bus.
func (s *FixStore) Report(busID string, c models.Coordinate, speedKmh *float64) error {
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixes[busID] = entry{fix: models.DeviceFix{Coordinate: c, SpeedKmh: speedKmh, ReceivedAt: s.now()}}
	return nil
}

// Deny records that the device refused geolocation.
func (s *FixStore) Deny(busID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixes[busID] = entry{denied: true}
}

// Latest returns the current fix of the bus, if there is a usable one.
func (s *FixStore) Latest(busID string) (*models.DeviceFix, bool) {
	s.mu.RLock()
	e, ok := s.fixes[busID]
	s.mu.RUnlock()

	if !ok || e.denied {
		return nil, false
	}
	if s.ttl > 0 && s.now().Sub(e.fix.ReceivedAt) > s.ttl {
		return nil, false
	}
	fix := e.fix
	return &fix, true
}
