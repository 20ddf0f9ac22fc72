package tabsync

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/okulov/timeledger/internal/logging"
)

// SpoolDirName is the spool directory created under the data directory.
const SpoolDirName = "sync-spool"

const tmpPrefix = ".tmp-"

type subscription struct {
	id      uint64
	handler Handler
}

// Manager is the cross-instance event bus. Construct with NewManager and
// inject it; there is no package-level singleton.
type Manager struct {
	source    string
	dir       string
	retention time.Duration

	watcher  *fsnotify.Watcher
	disabled bool

	mu       sync.Mutex
	handlers map[Kind][]subscription
	nextID   uint64
	seq      uint64

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewManager sets up the spool transport under dir. Transport setup is
// feature-detected exactly once: any failure yields a disabled manager
// whose methods are safe no-ops, never an error the caller must handle.
func NewManager(dir string, retention time.Duration) *Manager {
	m := &Manager{
		source:    uuid.NewString(),
		retention: retention,
		handlers:  make(map[Kind][]subscription),
		done:      make(chan struct{}),
	}

	if dir == "" {
		m.disabled = true
		return m
	}

	spool := filepath.Join(dir, SpoolDirName)
	if err := os.MkdirAll(spool, 0700); err != nil {
		logging.Warn("sync disabled: cannot create spool", logging.KeyError, err)
		m.disabled = true
		return m
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Warn("sync disabled: cannot create watcher", logging.KeyError, err)
		m.disabled = true
		return m
	}
	if err := watcher.Add(spool); err != nil {
		watcher.Close()
		logging.Warn("sync disabled: cannot watch spool", logging.KeyError, err)
		m.disabled = true
		return m
	}

	m.dir = spool
	m.watcher = watcher

	m.wg.Add(1)
	go m.receiveLoop()

	return m
}

// Source returns this instance's identity, included in every outgoing
// message so receivers can discard echoes.
func (m *Manager) Source() string {
	return m.source
}

// Disabled reports whether the transport could not be set up.
func (m *Manager) Disabled() bool {
	return m.disabled
}

// Subscribe registers a handler for one message kind and returns an
// idempotent unsubscribe function. Handlers for a kind run in
// registration order.
func (m *Manager) Subscribe(kind Kind, handler Handler) func() {
	if handler == nil {
		return func() {}
	}

	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.handlers[kind] = append(m.handlers[kind], subscription{id: id, handler: handler})
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		subs := m.handlers[kind]
		for i, s := range subs {
			if s.id == id {
				m.handlers[kind] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(m.handlers[kind]) == 0 {
			delete(m.handlers, kind)
		}
	}
}

// HandlerCount returns the number of handlers registered for a kind.
func (m *Manager) HandlerCount(kind Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handlers[kind])
}

// Broadcast publishes a mutation notification to every other instance.
// A disabled manager is a silent no-op; callers must never assume
// delivery either way.
func (m *Manager) Broadcast(kind Kind, data interface{}) error {
	if m.disabled {
		return nil
	}
	select {
	case <-m.done:
		return nil
	default:
	}

	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			logging.Warn("sync broadcast dropped: payload not serializable",
				logging.KeyKind, string(kind), logging.KeyError, err)
			return nil
		}
		raw = encoded
	}

	msg := Message{
		Kind:      kind,
		Data:      raw,
		Source:    m.source,
		Timestamp: time.Now(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil
	}

	m.mu.Lock()
	m.seq++
	seq := m.seq
	m.mu.Unlock()

	// Write-then-rename so receivers never observe a partial message.
	name := fmt.Sprintf("%d-%s-%d.json", time.Now().UnixNano(), m.source, seq)
	tmp := filepath.Join(m.dir, tmpPrefix+name)
	final := filepath.Join(m.dir, name)

	if err := os.WriteFile(tmp, payload, 0600); err != nil {
		logging.Warn("sync broadcast failed", logging.KeyError, err)
		return nil
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		logging.Warn("sync broadcast failed", logging.KeyError, err)
		return nil
	}

	return nil
}

// Close tears down the transport and clears all listeners. Safe to call
// repeatedly.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
		if m.watcher != nil {
			m.watcher.Close()
		}
		m.wg.Wait()
		m.mu.Lock()
		m.handlers = make(map[Kind][]subscription)
		m.mu.Unlock()
	})
}

// CollectGarbage removes spool files older than the retention window.
// The scheduler calls this periodically; receivers also skip anything
// already expired.
func (m *Manager) CollectGarbage() {
	if m.disabled {
		return
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-m.retention)
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(m.dir, entry.Name()))
		}
	}
}

// receiveLoop dispatches spool messages written by other instances.
func (m *Manager) receiveLoop() {
	defer m.wg.Done()

	for {
		select {
		case <-m.done:
			return
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			m.consume(event.Name)
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			logging.DebugLog("sync watcher error", logging.KeyError, err)
		}
	}
}

// consume reads one spool file and dispatches it. Own echoes, expired
// messages, unknown kinds and malformed documents are all dropped
// silently; sync is best-effort by contract.
func (m *Manager) consume(path string) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, tmpPrefix) || !strings.HasSuffix(base, ".json") {
		return
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		logging.DebugLog("sync message dropped: malformed", logging.KeyError, err)
		return
	}

	if msg.Source == m.source {
		return
	}
	if !validKinds[msg.Kind] {
		logging.DebugLog("sync message dropped: unknown kind", logging.KeyKind, string(msg.Kind))
		return
	}
	if !msg.Timestamp.IsZero() && time.Since(msg.Timestamp) > m.retention {
		return
	}

	m.mu.Lock()
	subs := make([]subscription, len(m.handlers[msg.Kind]))
	copy(subs, m.handlers[msg.Kind])
	m.mu.Unlock()

	for _, s := range subs {
		s.handler(msg)
	}
}
