package terminal

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
)

// Registry holds one controller per bus, created on first use.
type Registry struct {
	deps  Deps
	delay time.Duration

	mu          sync.Mutex
	controllers map[string]*Controller
}

func NewRegistry(deps Deps, autoResetDelay time.Duration) *Registry {
	return &Registry{
		deps:        deps,
		delay:       autoResetDelay,
		controllers: make(map[string]*Controller),
	}
}

// Get returns the controller of the bus.
func (r *Registry) Get(busID string) (*Controller, error) {
	busID = strings.TrimSpace(busID)
	if busID == "" {
		return nil, fmt.Errorf("%w: bus id is required", types.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.controllers[busID]
	if !ok {
		c = NewController(busID, r.deps, r.delay)
		r.controllers[busID] = c
	}
	return c, nil
}

// Close stops the pending auto-resets of every terminal.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.controllers {
		c.Stop()
	}
}
