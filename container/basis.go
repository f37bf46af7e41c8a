/*
DESCRIPTION
  basis.go caches the loaded basis file referenced by a stream's
  header, reloading it when the underlying file changes on disk so a
  long-lived decoder process (e.g. a viewer watching a basis under
  active revision) picks up edits without a restart, and parses the
  cached bytes into the basis states a stream's WFA starts from.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

package container

import (
	"bytes"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/fiascogo/fiasco/arith"
	"github.com/fiascogo/fiasco/bits"
	"github.com/fiascogo/fiasco/fiascoerr"
	"github.com/fiascogo/fiasco/logging"
	"github.com/fiascogo/fiasco/wfa"
)

// basisMagic identifies an initial basis file, distinct from a
// stream's own "FIASCO" magic (note the lowercase tail).
var basisMagic = [6]byte{'F', 'i', 'a', 's', 'c', 'o'}

// basisRelease is the only basis file release this reader supports,
// matching the stream reader's release-2-only decision.
const basisRelease = 2

// BasisCache loads and caches a basis file's raw bytes, watching the
// path for changes via fsnotify and invalidating the cache entry on
// write or rename events.
type BasisCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	watcher *fsnotify.Watcher
	log     logging.Logger
}

// NewBasisCache starts a filesystem watcher for basis file reloads.
// Callers must call Close when done.
func NewBasisCache(log logging.Logger) (*BasisCache, error) {
	if log == nil {
		log = logging.NoOp()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "container: starting basis file watcher")
	}
	c := &BasisCache{entries: make(map[string][]byte), watcher: w, log: log}
	go c.watch()
	return c, nil
}

func (c *BasisCache) watch() {
	for event := range c.watcher.Events {
		if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
			continue
		}
		c.mu.Lock()
		delete(c.entries, event.Name)
		c.mu.Unlock()
		c.log.Info("basis file changed, cache invalidated", "path", event.Name)
	}
}

// Load returns the contents of the basis file at path, reading it
// from disk on first request or after invalidation and serving the
// cached copy otherwise.
func (c *BasisCache) Load(path string) ([]byte, error) {
	c.mu.Lock()
	if data, ok := c.entries[path]; ok {
		c.mu.Unlock()
		return data, nil
	}
	c.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "container: loading basis file %q", path)
	}

	c.mu.Lock()
	c.entries[path] = data
	c.mu.Unlock()

	if err := c.watcher.Add(path); err != nil {
		c.log.Warning("could not watch basis file for changes", "path", path, "error", err.Error())
	}
	return data, nil
}

// Close stops the underlying filesystem watcher.
func (c *BasisCache) Close() error {
	return c.watcher.Close()
}

// ParseBasis reads a "Fiasco"-magic initial basis file: a WfaInfo-like
// preamble (geometry, color flag, the DC RPF its states quantize
// final_distribution with, and an explicit state count) followed by
// that many states, encoded with the same per-state structure a
// stream frame uses minus motion vectors — basis states are static
// domains contributed once per stream, never predicted from a
// reference frame. The returned WFA carries streamInfo so it can be
// extended directly by the stream's own per-frame states afterward.
func ParseBasis(data []byte, streamInfo *wfa.Info) (*wfa.WFA, error) {
	br := bits.NewReader(bytes.NewReader(data))

	var got [6]byte
	for i := range got {
		v, err := br.ReadBits(8)
		if err != nil {
			return nil, errors.Wrap(err, "container: reading basis magic")
		}
		got[i] = byte(v)
	}
	if got != basisMagic {
		return nil, &fiascoerr.Malformed{Where: "container.ParseBasis", Detail: "bad basis magic"}
	}

	release, err := br.ReadBits(8)
	if err != nil {
		return nil, errors.Wrap(err, "container: reading basis release byte")
	}
	if release != basisRelease {
		return nil, &fiascoerr.Unsupported{Feature: "basis file release"}
	}

	width, err := readUint(br, 16)
	if err != nil {
		return nil, err
	}
	height, err := readUint(br, 16)
	if err != nil {
		return nil, err
	}
	colorBit, err := br.GetBit()
	if err != nil {
		return nil, err
	}
	color := colorBit != 0

	dcrpf, err := readRPF(br)
	if err != nil {
		return nil, err
	}

	statesCount, err := readUint(br, 16)
	if err != nil {
		return nil, err
	}
	br.InputByteAlign()

	dec, err := arith.NewDecoder(br)
	if err != nil {
		return nil, err
	}
	models := newStateModels()

	w := wfa.New(streamInfo, 0)
	for state := 0; state < int(statesCount); state++ {
		if err := parseState(br, w, state, dec, models, dcrpf, false); err != nil {
			return nil, errors.Wrapf(err, "container: parsing basis state %d", state)
		}
	}
	w.States = int(statesCount)
	w.BasisStates = int(statesCount)
	if statesCount > 0 {
		w.RootState = int(statesCount) - 1
	}

	assignFrameGeometry(w, int(width), int(height), color, 0)

	return w, nil
}
