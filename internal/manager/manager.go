// Package manager orchestrates shader compilation: key derivation, cache
// lookup, backend selection, cache population, statistics, and hot reload.
package manager

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/xess-engine/xsc/internal/cache"
	"github.com/xess-engine/xsc/internal/compiler"
	"github.com/xess-engine/xsc/internal/shader"
	"github.com/xess-engine/xsc/internal/watch"
)

// Config controls cache sizing, backend policy, and hot reload.
type Config struct {
	// CacheEnabled gates both cache tiers. Compiles without a source
	// label bypass the cache regardless.
	CacheEnabled bool

	// CacheDir is the disk-tier directory (cache.DefaultDir if empty).
	CacheDir string

	// MaxEntries bounds the in-memory artifact cache by count.
	MaxEntries int

	// MaxMemoryMB bounds the in-memory artifact cache by approximate
	// bytecode footprint.
	MaxMemoryMB int

	// LegacyOnly forces the legacy backend for every compile.
	LegacyOnly bool

	// HotReload enables the file watcher.
	HotReload bool
}

// DefaultConfig mirrors the defaults of the engine runtime.
func DefaultConfig() Config {
	return Config{
		CacheEnabled: true,
		CacheDir:     cache.DefaultDir,
		MaxEntries:   1000,
		MaxMemoryMB:  256,
	}
}

type artifactEntry struct {
	artifact *shader.Artifact
	node     *lruNode
}

// Manager is the single entry point for compiling shaders. Construct one
// explicitly and pass it to consumers; there is no process-wide instance.
type Manager struct {
	cfg   Config
	log   *slog.Logger
	store *cache.Store

	// modern is nil when the backend failed to initialize; every compile
	// then falls back to legacy.
	modern compiler.Backend
	legacy compiler.Backend

	mu        sync.Mutex
	artifacts map[cache.Key]*artifactEntry
	lru       lruList
	memBytes  uint64

	watcher *watch.Watcher
	stats   Statistics
}

// New builds a manager with the real backends. A modern-backend
// initialization failure is not fatal: it is logged and the manager runs
// legacy-only.
func New(cfg Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	var modern compiler.Backend
	if m, err := compiler.NewModern(logger); err != nil {
		logger.Warn("modern shader backend unavailable, falling back to legacy",
			"maxModel", shader.LegacyMaxModel.String(), "error", err)
	} else {
		modern = m
	}

	return NewWithBackends(cfg, modern, compiler.NewLegacy(logger), logger)
}

// NewWithBackends builds a manager around explicit backends. modern may be
// nil to model an unavailable modern compiler.
func NewWithBackends(cfg Config, modern, legacy compiler.Backend, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultConfig().MaxEntries
	}
	if cfg.MaxMemoryMB <= 0 {
		cfg.MaxMemoryMB = DefaultConfig().MaxMemoryMB
	}

	m := &Manager{
		cfg:       cfg,
		log:       logger,
		store:     cache.NewStore(cfg.CacheDir, logger),
		modern:    modern,
		legacy:    legacy,
		artifacts: make(map[cache.Key]*artifactEntry),
		watcher:   watch.NewWatcher(logger),
	}
	m.watcher.SetEnabled(cfg.HotReload)

	return m
}

// Store exposes the two-tier bytecode cache.
func (m *Manager) Store() *cache.Store { return m.store }

// Stats returns a snapshot of the running counters.
func (m *Manager) Stats() StatsSnapshot { return m.stats.Snapshot() }

// ResetStats zeroes the counters.
func (m *Manager) ResetStats() { m.stats.Reset() }

// MaxModel reports the highest target model the active backend set supports.
func (m *Manager) MaxModel() shader.Model {
	if m.modern != nil && !m.cfg.LegacyOnly {
		return m.modern.MaxModel()
	}

	return m.legacy.MaxModel()
}

// Supports reports compiler feature support for the currently selectable
// backends.
func (m *Manager) Supports(f compiler.Feature) bool {
	if m.modern != nil && !m.cfg.LegacyOnly {
		return m.modern.Supports(f)
	}

	return m.legacy.Supports(f)
}

// backendFor applies the selection policy: legacy when the modern backend
// is unavailable or the requested model is within the legacy ceiling,
// modern otherwise.
func (m *Manager) backendFor(model shader.Model) compiler.Backend {
	if m.cfg.LegacyOnly || model <= shader.LegacyMaxModel {
		return m.legacy
	}

	if m.modern == nil {
		m.log.Warn("compiling with legacy backend, modern backend unavailable",
			"requestedModel", model.String())
		return m.legacy
	}

	return m.modern
}

// Compile derives the cache key, consults the cache, and dispatches to the
// selected backend on a miss. A successful compile populates both cache
// tiers. Failures are returned in the artifact, never as a panic or error;
// callers must check Success.
func (m *Manager) Compile(source, entryPoint string, stage shader.Stage, opts shader.Options, sourceName string) *shader.Artifact {
	start := time.Now()
	m.stats.totalCompiles.Add(1)

	cacheable := m.cfg.CacheEnabled && sourceName != ""

	var key cache.Key
	if cacheable {
		key = cache.DeriveKey(source, stage, opts)

		if artifact, ok := m.lookup(key); ok {
			m.stats.cacheHits.Add(1)
			m.stats.recordLatency(time.Since(start))
			return artifact
		}

		if bytecode, ok := m.store.Get(sourceName, key); ok {
			artifact := &shader.Artifact{
				Bytecode:   bytecode,
				Success:    true,
				Reflection: shader.NewReflection(),
			}

			if refl, err := compiler.Reflect(source, entryPoint, stage); err == nil {
				artifact.Reflection = refl
			}

			m.admit(key, artifact)
			m.stats.cacheHits.Add(1)
			m.stats.recordLatency(time.Since(start))
			m.log.Debug("using cached shader", "name", sourceName, "key", key.Hex())

			return artifact
		}

		m.stats.cacheMisses.Add(1)
	}

	backend := m.backendFor(opts.TargetModel)
	artifact := backend.Compile(source, entryPoint, stage, opts, sourceName)

	if !artifact.Success {
		m.stats.compileErrors.Add(1)
		m.log.Debug("shader compile failed", "name", sourceName, "backend", backend.Name(),
			"errors", len(artifact.Errors))
	} else if cacheable {
		m.store.Put(sourceName, key, artifact.Bytecode)
		m.admit(key, artifact)
	}

	m.stats.recordLatency(time.Since(start))

	return artifact
}

// CompileFromFile loads a source file and compiles it, labeled with the
// filename so the result is cacheable.
func (m *Manager) CompileFromFile(filename, entryPoint string, stage shader.Stage, opts shader.Options) *shader.Artifact {
	data, err := os.ReadFile(filename)
	if err != nil {
		return shader.Failed(fmt.Sprintf("failed to load shader file %s: %v", filename, err))
	}

	return m.Compile(string(data), entryPoint, stage, opts, filename)
}

// CompileAsync schedules the same pipeline on a background goroutine and
// returns a handle the caller polls or blocks on. Concurrent compiles of
// the same key are not deduplicated: both may run the backend, and the
// later cache write wins. That wastes work but is not a correctness
// hazard.
func (m *Manager) CompileAsync(source, entryPoint string, stage shader.Stage, opts shader.Options, sourceName string) *Pending {
	m.stats.asyncCompiles.Add(1)

	pending := newPending()
	go func() {
		pending.finish(m.Compile(source, entryPoint, stage, opts, sourceName))
	}()

	return pending
}

// WatchFile registers filename for hot reload. When its timestamp
// advances, the shader is recompiled with the given parameters and the
// result (success or failure) is handed to onReload. A failed recompile
// never silently substitutes stale bytecode: the previous artifact stays
// only because nothing replaced it, and the errors surface via onReload.
func (m *Manager) WatchFile(filename, entryPoint string, stage shader.Stage, opts shader.Options, onReload func(*shader.Artifact)) {
	m.watcher.AddWatch(filename, func() {
		m.stats.hotReloads.Add(1)
		m.log.Info("hot reloading shader", "file", filename)

		artifact := m.CompileFromFile(filename, entryPoint, stage, opts)
		if onReload != nil {
			onReload(artifact)
		}
	})
}

// UnwatchFile removes a hot-reload registration.
func (m *Manager) UnwatchFile(filename string) {
	m.watcher.RemoveWatch(filename)
}

// CheckForChanges polls the watched files once.
func (m *Manager) CheckForChanges() {
	m.watcher.CheckForChanges()
}

// SetHotReloadEnabled toggles the watcher.
func (m *Manager) SetHotReloadEnabled(enabled bool) {
	m.watcher.SetEnabled(enabled)
}

// ClearCache drops the in-memory artifact cache and both store tiers.
func (m *Manager) ClearCache() {
	m.mu.Lock()
	m.artifacts = make(map[cache.Key]*artifactEntry)
	m.lru.Clear()
	m.memBytes = 0
	m.mu.Unlock()

	m.store.Clear()
}

// Close releases the cache store.
func (m *Manager) Close() error {
	return m.store.Close()
}

// lookup returns the shared in-memory artifact for a key, refreshing its
// recency.
func (m *Manager) lookup(key cache.Key) (*shader.Artifact, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.artifacts[key]
	if !ok {
		return nil, false
	}

	m.lru.MoveToFront(entry.node)

	return entry.artifact, true
}

// admit inserts an artifact into the bounded in-memory cache, evicting
// least-recently-used entries while either the entry count or the memory
// ceiling is exceeded. Recency is last access, not insertion.
func (m *Manager) admit(key cache.Key, artifact *shader.Artifact) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.artifacts[key]; ok {
		m.memBytes -= entry.artifact.Size()
		m.memBytes += artifact.Size()
		entry.artifact = artifact
		m.lru.MoveToFront(entry.node)
		return
	}

	node := m.lru.PushFront(key)
	m.artifacts[key] = &artifactEntry{artifact: artifact, node: node}
	m.memBytes += artifact.Size()

	ceiling := uint64(m.cfg.MaxMemoryMB) << 20
	for m.lru.Len() > m.cfg.MaxEntries || m.memBytes > ceiling {
		oldest, ok := m.lru.RemoveOldest()
		if !ok {
			break
		}

		if entry, ok := m.artifacts[oldest]; ok {
			m.memBytes -= entry.artifact.Size()
			delete(m.artifacts, oldest)
		}

		m.log.Debug("evicted cached shader artifact", "key", oldest.Hex())
	}
}

// CachedArtifacts returns the current in-memory artifact count.
func (m *Manager) CachedArtifacts() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.artifacts)
}
