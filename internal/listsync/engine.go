package listsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/davenwood/pantrylist/internal/consolidate"
	"github.com/davenwood/pantrylist/internal/models"
)

// State describes where an engine currently gets its truth from.
type State string

const (
	// StateLocal: serving the durable local copy, remote not yet contacted.
	StateLocal State = "local"
	// StateSyncing: initial reconciliation with the remote store in progress.
	StateSyncing State = "syncing"
	// StateLive: remote reachable and change notifications flowing.
	StateLive State = "live"
	// StateDegraded: remote unreachable, serving the local copy until it
	// comes back.
	StateDegraded State = "degraded"
)

var ErrItemNotFound = errors.New("item not found in current list")

// Remote is the household-keyed shared store. *database.DB satisfies it.
type Remote interface {
	GetListItems(ctx context.Context, householdID int) ([]models.ListItemRow, error)
	ReplaceListItems(ctx context.Context, householdID int, items []models.ListItemRow) error
	SetItemChecked(ctx context.Context, householdID int, itemKey string, checked bool) error
}

// Notifier delivers coalesced "household list changed" signals.
type Notifier interface {
	Subscribe(ctx context.Context, householdID int) (<-chan struct{}, error)
}

// LocalStore is the durable local slot store. *cache.Cache satisfies it.
type LocalStore interface {
	Get(slot string) (string, bool, error)
	Put(slot, value string) error
}

// Engine reconciles one household's list between the local durable cache and
// the remote store. The remote is authoritative: whenever it has rows they
// overwrite the local copy wholesale. A remote outage degrades the engine to
// the local copy instead of failing reads.
type Engine struct {
	householdID int
	cache       LocalStore
	remote      Remote
	notifier    Notifier

	// subMu serializes subscription attempts; lifeCtx is the context Start
	// was given, which bounds the watch goroutine's lifetime.
	subMu   sync.Mutex
	lifeCtx context.Context

	mu       sync.Mutex
	state    State
	watching bool
	items    []consolidate.MergedItem
	checks   map[string]bool
}

func NewEngine(householdID int, c LocalStore, remote Remote, notifier Notifier) *Engine {
	return &Engine{
		householdID: householdID,
		cache:       c,
		remote:      remote,
		notifier:    notifier,
		state:       StateLocal,
		checks:      make(map[string]bool),
	}
}

func (e *Engine) itemsSlot() string  { return fmt.Sprintf("items:%d", e.householdID) }
func (e *Engine) checksSlot() string { return fmt.Sprintf("checks:%d", e.householdID) }

// Start loads the local copy, reconciles with the remote store, and
// subscribes to change notifications. It never fails outright on a remote
// outage: the engine comes up degraded on the local copy instead.
func (e *Engine) Start(ctx context.Context) error {
	e.subMu.Lock()
	e.lifeCtx = ctx
	e.subMu.Unlock()

	if err := e.loadLocal(); err != nil {
		return fmt.Errorf("failed to load local cache: %w", err)
	}

	e.setState(StateSyncing)

	rows, err := e.remote.GetListItems(ctx, e.householdID)
	if err != nil {
		log.Printf("Warning: remote fetch failed for household %d, serving local copy: %v", e.householdID, err)
		e.setState(StateDegraded)
		return nil
	}

	if len(rows) > 0 {
		// Remote has data: it wins, wholesale.
		e.adoptRows(rows)
		e.storeLocal()
	} else if len(e.snapshotItems()) > 0 {
		// Remote empty but we have local state: seed it.
		if err := e.pushRemote(ctx); err != nil {
			log.Printf("Warning: failed to seed remote for household %d: %v", e.householdID, err)
			e.setState(StateDegraded)
			return nil
		}
	}

	if err := e.ensureWatch(); err != nil {
		log.Printf("Warning: change subscription failed for household %d: %v", e.householdID, err)
		e.setState(StateDegraded)
		return nil
	}

	e.setState(StateLive)
	return nil
}

// ensureWatch makes sure a watch goroutine is consuming change signals,
// subscribing if none is running. Live is only ever entered through here:
// an engine without a flowing subscription would silently miss other
// members' edits while advertising sync.
func (e *Engine) ensureWatch() error {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	if e.lifeCtx == nil {
		return errors.New("engine not started")
	}

	e.mu.Lock()
	watching := e.watching
	e.mu.Unlock()
	if watching {
		return nil
	}

	ch, err := e.notifier.Subscribe(e.lifeCtx, e.householdID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.watching = true
	e.mu.Unlock()

	go e.watch(e.lifeCtx, ch)
	return nil
}

// watch re-fetches the full list on every change signal. Notifications carry
// no payload beyond "something changed"; the remote copy is re-read whole.
func (e *Engine) watch(ctx context.Context, ch <-chan struct{}) {
	defer func() {
		e.mu.Lock()
		e.watching = false
		e.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			e.Refresh(ctx)
		}
	}
}

// Refresh pulls the remote list and overwrites the local copy. A failed pull
// degrades the engine; the local copy keeps serving.
func (e *Engine) Refresh(ctx context.Context) {
	rows, err := e.remote.GetListItems(ctx, e.householdID)
	if err != nil {
		log.Printf("Warning: refresh failed for household %d: %v", e.householdID, err)
		e.setState(StateDegraded)
		return
	}

	e.adoptRows(rows)
	e.storeLocal()

	if err := e.ensureWatch(); err != nil {
		log.Printf("Warning: change subscription failed for household %d: %v", e.householdID, err)
		e.setState(StateDegraded)
		return
	}

	e.setState(StateLive)
}

// Publish replaces the household's list with a freshly consolidated one,
// locally and remotely. Check state carries over for item keys that survive
// the regeneration; keys that vanished are pruned.
func (e *Engine) Publish(ctx context.Context, list *consolidate.ShoppingList) error {
	items := list.Items()

	e.mu.Lock()
	checks := make(map[string]bool, len(items))
	for _, item := range items {
		if e.checks[item.ItemKey] {
			checks[item.ItemKey] = true
		}
	}
	e.items = items
	e.checks = checks
	e.mu.Unlock()

	e.storeLocal()

	if err := e.pushRemote(ctx); err != nil {
		log.Printf("Warning: remote publish failed for household %d: %v", e.householdID, err)
		e.setState(StateDegraded)
		return nil
	}

	if err := e.ensureWatch(); err != nil {
		log.Printf("Warning: change subscription failed for household %d: %v", e.householdID, err)
		e.setState(StateDegraded)
		return nil
	}

	e.setState(StateLive)
	return nil
}

// Toggle flips one item's check state. The local copy is updated
// synchronously; the remote write is best-effort so a checkbox never blocks
// on the network.
func (e *Engine) Toggle(ctx context.Context, itemKey string, checked bool) error {
	e.mu.Lock()
	found := false
	for _, item := range e.items {
		if item.ItemKey == itemKey {
			found = true
			break
		}
	}
	if !found {
		e.mu.Unlock()
		return ErrItemNotFound
	}
	if checked {
		e.checks[itemKey] = true
	} else {
		delete(e.checks, itemKey)
	}
	e.mu.Unlock()

	e.storeLocal()

	if err := e.remote.SetItemChecked(ctx, e.householdID, itemKey, checked); err != nil {
		log.Printf("Warning: remote check write failed for household %d: %v", e.householdID, err)
		e.setState(StateDegraded)
	}

	return nil
}

// Current returns the rendered list and the check state of its items.
func (e *Engine) Current() (*consolidate.ShoppingList, map[string]bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := make([]consolidate.MergedItem, len(e.items))
	copy(items, e.items)

	checks := make(map[string]bool, len(e.checks))
	for k, v := range e.checks {
		checks[k] = v
	}

	return consolidate.Rebuild(items), checks
}

// State reports where the engine's truth currently comes from.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SyncAvailable reports whether the remote store is currently trusted.
func (e *Engine) SyncAvailable() bool {
	return e.State() == StateLive
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

func (e *Engine) snapshotItems() []consolidate.MergedItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	items := make([]consolidate.MergedItem, len(e.items))
	copy(items, e.items)
	return items
}

// adoptRows replaces in-memory state with remote rows. Rows are re-sorted by
// position so the rendering order matches the original consolidation.
func (e *Engine) adoptRows(rows []models.ListItemRow) {
	sorted := make([]models.ListItemRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	items := make([]consolidate.MergedItem, 0, len(sorted))
	checks := make(map[string]bool)
	for _, row := range sorted {
		var item consolidate.MergedItem
		if err := json.Unmarshal(row.ItemJSON, &item); err != nil {
			log.Printf("Warning: skipping undecodable list row %q: %v", row.ItemKey, err)
			continue
		}
		item.ItemKey = row.ItemKey
		items = append(items, item)
		if row.Checked {
			checks[row.ItemKey] = true
		}
	}

	e.mu.Lock()
	e.items = items
	e.checks = checks
	e.mu.Unlock()
}

// pushRemote writes the whole in-memory list to the remote store.
func (e *Engine) pushRemote(ctx context.Context) error {
	e.mu.Lock()
	rows := make([]models.ListItemRow, 0, len(e.items))
	for i, item := range e.items {
		itemJSON, err := json.Marshal(item)
		if err != nil {
			e.mu.Unlock()
			return err
		}
		rows = append(rows, models.ListItemRow{
			HouseholdID: e.householdID,
			ItemKey:     item.ItemKey,
			ItemJSON:    itemJSON,
			Checked:     e.checks[item.ItemKey],
			Position:    i,
		})
	}
	e.mu.Unlock()

	return e.remote.ReplaceListItems(ctx, e.householdID, rows)
}

// loadLocal restores state from the durable cache.
func (e *Engine) loadLocal() error {
	itemsJSON, ok, err := e.cache.Get(e.itemsSlot())
	if err != nil {
		return err
	}
	if ok {
		var items []consolidate.MergedItem
		if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
			log.Printf("Warning: discarding corrupt cached list for household %d: %v", e.householdID, err)
		} else {
			e.mu.Lock()
			e.items = items
			e.mu.Unlock()
		}
	}

	checksJSON, ok, err := e.cache.Get(e.checksSlot())
	if err != nil {
		return err
	}
	if ok {
		var checks map[string]bool
		if err := json.Unmarshal([]byte(checksJSON), &checks); err != nil {
			log.Printf("Warning: discarding corrupt cached check state for household %d: %v", e.householdID, err)
		} else {
			e.mu.Lock()
			e.checks = checks
			e.mu.Unlock()
		}
	}

	e.mu.Lock()
	if e.checks == nil {
		e.checks = make(map[string]bool)
	}
	e.mu.Unlock()

	return nil
}

// storeLocal persists state to the durable cache. Failures are logged, not
// returned: a broken cache must not take down list operations.
func (e *Engine) storeLocal() {
	e.mu.Lock()
	itemsJSON, itemsErr := json.Marshal(e.items)
	checksJSON, checksErr := json.Marshal(e.checks)
	e.mu.Unlock()

	if itemsErr != nil || checksErr != nil {
		log.Printf("Warning: failed to encode cache state for household %d", e.householdID)
		return
	}

	if err := e.cache.Put(e.itemsSlot(), string(itemsJSON)); err != nil {
		log.Printf("Warning: cache write failed for household %d: %v", e.householdID, err)
	}
	if err := e.cache.Put(e.checksSlot(), string(checksJSON)); err != nil {
		log.Printf("Warning: cache write failed for household %d: %v", e.householdID, err)
	}
}
