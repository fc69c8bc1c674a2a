package database

import (
	"context"
	"log"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5"
)

// listChannel is the NOTIFY channel the list_items trigger publishes to.
const listChannel = "list_changed"

// Listener holds a dedicated connection on LISTEN and fans household
// change notifications out to subscribers. Subscribers get a coalesced
// "something changed" signal, not the change itself; the sync layer
// responds with a full re-fetch.
type Listener struct {
	databaseURL string

	mu   sync.Mutex
	subs map[int][]chan struct{}
}

// NewListener creates a listener for the given database.
func NewListener(databaseURL string) *Listener {
	return &Listener{
		databaseURL: databaseURL,
		subs:        make(map[int][]chan struct{}),
	}
}

// Subscribe registers interest in one household's changes. The returned
// channel carries coalesced signals; it is closed when ctx is done.
func (l *Listener) Subscribe(ctx context.Context, householdID int) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	l.mu.Lock()
	l.subs[householdID] = append(l.subs[householdID], ch)
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.unsubscribe(householdID, ch)
		close(ch)
	}()

	return ch, nil
}

func (l *Listener) unsubscribe(householdID int, ch chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	subs := l.subs[householdID]
	for i, c := range subs {
		if c == ch {
			l.subs[householdID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(l.subs[householdID]) == 0 {
		delete(l.subs, householdID)
	}
}

// Run connects and blocks receiving notifications until ctx is cancelled.
// A lost connection ends the run with an error; the caller decides whether
// to restart (the sync layer treats the gap as a degraded period).
func (l *Listener) Run(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+listChannel); err != nil {
		return err
	}

	log.Printf("Listening for %s notifications", listChannel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		householdID, err := strconv.Atoi(notification.Payload)
		if err != nil {
			log.Printf("Warning: ignoring malformed %s payload %q", listChannel, notification.Payload)
			continue
		}

		l.dispatch(householdID)
	}
}

// dispatch signals every subscriber of the household without blocking:
// a subscriber that already has a pending signal needs no second one.
func (l *Listener) dispatch(householdID int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, ch := range l.subs[householdID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
