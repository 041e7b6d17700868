package potions

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Workshop manages named alchemists that share one catalogue. Each alchemist
// gets its own generator, derived from the workshop's.
type Workshop struct {
	mu          sync.RWMutex
	catalogue   *Catalogue
	rng         *rand.Rand
	alchemists  map[AlchemistID]*Alchemist
	logger      Logger
	notifierMgr *NotificationManager
	notifierIDs []string
}

// NewWorkshop creates a workshop around catalogue.
func NewWorkshop(catalogue *Catalogue, rng *rand.Rand) *Workshop {
	return NewWorkshopWithLogger(catalogue, rng, nil)
}

// NewWorkshopWithLogger creates a workshop whose alchemists log to logger.
func NewWorkshopWithLogger(catalogue *Catalogue, rng *rand.Rand, logger Logger) *Workshop {
	return &Workshop{
		catalogue:  catalogue,
		rng:        randOrDefault(rng),
		alchemists: make(map[AlchemistID]*Alchemist),
		logger:     loggerOrNoOp(logger),
	}
}

// Catalogue returns the shared catalogue.
func (w *Workshop) Catalogue() *Catalogue {
	return w.catalogue
}

// SetNotificationManager wires every current and future alchemist to mgr.
func (w *Workshop) SetNotificationManager(mgr *NotificationManager, notifierIDs ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notifierMgr = mgr
	w.notifierIDs = append([]string(nil), notifierIDs...)
	for _, a := range w.alchemists {
		a.SetNotificationManager(mgr, notifierIDs...)
	}
}

func (w *Workshop) adopt(id AlchemistID, a *Alchemist) {
	a.SetID(id)
	a.SetLogger(w.logger)
	if w.notifierMgr != nil {
		a.SetNotificationManager(w.notifierMgr, w.notifierIDs...)
	}
	w.alchemists[id] = a
}

// CreateAlchemist creates an alchemist under id. An empty id is replaced with
// a generated one. Returns an error if the id is already taken.
func (w *Workshop) CreateAlchemist(id AlchemistID) (*Alchemist, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if id == "" {
		id = AlchemistID(uuid.NewString())
	}
	if _, exists := w.alchemists[id]; exists {
		return nil, fmt.Errorf("%w: id=%s", ErrAlchemistExists, id)
	}

	a := NewAlchemist(w.catalogue, deriveRand(w.rng))
	w.adopt(id, a)
	w.logger.Infof("alchemist created: id=%s", id)
	return a, nil
}

// GetAlchemist retrieves an alchemist by id
func (w *Workshop) GetAlchemist(id AlchemistID) (*Alchemist, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	a, ok := w.alchemists[id]
	return a, ok
}

// CloneAlchemist copies the alchemist src into a new alchemist dst.
func (w *Workshop) CloneAlchemist(src, dst AlchemistID) (*Alchemist, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	a, ok := w.alchemists[src]
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", ErrAlchemistNotFound, src)
	}
	if dst == "" {
		dst = AlchemistID(uuid.NewString())
	}
	if _, exists := w.alchemists[dst]; exists {
		return nil, fmt.Errorf("%w: id=%s", ErrAlchemistExists, dst)
	}

	c := a.Clone()
	w.adopt(dst, c)
	w.logger.Infof("alchemist cloned: src=%s dst=%s", src, dst)
	return c, nil
}

// DeleteAlchemist removes an alchemist by id
func (w *Workshop) DeleteAlchemist(id AlchemistID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.alchemists[id]; !exists {
		return fmt.Errorf("%w: id=%s", ErrAlchemistNotFound, id)
	}
	delete(w.alchemists, id)
	w.logger.Infof("alchemist deleted: id=%s", id)
	return nil
}

// ListAlchemists returns every alchemist id in sorted order.
func (w *Workshop) ListAlchemists() []AlchemistID {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ids := make([]AlchemistID, 0, len(w.alchemists))
	for id := range w.alchemists {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
