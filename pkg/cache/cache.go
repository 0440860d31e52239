package cache

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// PeerState is the HOTP synchronization state for one peer: the highest
// accepted counter, the replay history bitmask below it, and the time the
// entry was last touched (used for eviction).
type PeerState struct {
	Counter   uint64    `json:"counter"`
	History   uint64    `json:"history"`
	UpdatedAt time.Time `json:"updated_at"`
}

// A CounterCache holds per-peer verifier state, keyed by whatever name the
// caller uses for the peer (typically the agreed user identity).
type CounterCache struct {
	MaxEntries int
	Peers      map[string]PeerState `json:"peers"`
	lock       sync.Mutex
}

// New returns a CounterCache that holds state for up to maxEntries peers,
// evicting the least-recently-updated entry when full.
//
// Set maxEntries to zero for an unbounded cache.
func New(maxEntries int) *CounterCache {
	return &CounterCache{
		MaxEntries: maxEntries,
		Peers:      make(map[string]PeerState),
	}
}

// Import reads a CounterCache from r. The data should previously have been
// generated using [CounterCache.Export].
func Import(r io.Reader) (*CounterCache, error) {
	var c CounterCache
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, err
	}
	if c.Peers == nil {
		c.Peers = make(map[string]PeerState)
	}
	return &c, nil
}

// ImportFromFile reads a CounterCache from disk.
func ImportFromFile(filename string) (*CounterCache, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Import(file)
}

// Export writes a serialized CounterCache to w.
func (c *CounterCache) Export(w io.Writer) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	return json.NewEncoder(w).Encode(c)
}

// ExportToFile writes a CounterCache to disk. Counter state can be used to
// replay codes if rewound, so the file is not world-readable.
func (c *CounterCache) ExportToFile(filename string) error {
	file, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	return c.Export(file)
}

// Update stores the counter and history for peer, evicting the
// least-recently-updated entry if the cache is over capacity.
func (c *CounterCache) Update(peer string, counter, history uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.Peers[peer] = PeerState{Counter: counter, History: history, UpdatedAt: time.Now()}
	if c.MaxEntries > 0 && len(c.Peers) > c.MaxEntries {
		oldestPeer := peer
		oldestTime := time.Now()
		for p, state := range c.Peers {
			if state.UpdatedAt.Before(oldestTime) {
				oldestPeer = p
				oldestTime = state.UpdatedAt
			}
		}
		delete(c.Peers, oldestPeer)
	}
}

// GetEntry returns the stored state for peer.
func (c *CounterCache) GetEntry(peer string) (PeerState, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	state, ok := c.Peers[peer]
	return state, ok
}
