package listsync

import (
	"context"
	"sync"
)

// Manager hands out one Engine per household, starting each lazily on first
// use. Engines live for the process lifetime; their watch goroutines stop
// when the base context is cancelled.
type Manager struct {
	baseCtx  context.Context
	cache    LocalStore
	remote   Remote
	notifier Notifier

	mu      sync.Mutex
	engines map[int]*managedEngine
}

type managedEngine struct {
	engine *Engine

	mu      sync.Mutex
	started bool
}

func NewManager(baseCtx context.Context, c LocalStore, remote Remote, notifier Notifier) *Manager {
	return &Manager{
		baseCtx:  baseCtx,
		cache:    c,
		remote:   remote,
		notifier: notifier,
		engines:  make(map[int]*managedEngine),
	}
}

// ForHousehold returns the household's engine, starting it on first call.
// A failed start is not remembered: the next call tries again, so a
// transient cache error doesn't wedge the household until restart.
func (m *Manager) ForHousehold(householdID int) (*Engine, error) {
	m.mu.Lock()
	me, ok := m.engines[householdID]
	if !ok {
		me = &managedEngine{engine: NewEngine(householdID, m.cache, m.remote, m.notifier)}
		m.engines[householdID] = me
	}
	m.mu.Unlock()

	me.mu.Lock()
	defer me.mu.Unlock()

	if !me.started {
		if err := me.engine.Start(m.baseCtx); err != nil {
			return nil, err
		}
		me.started = true
	}

	return me.engine, nil
}
