package connection

import (
	"sync"

	"go.uber.org/zap"

	"github.com/tinysql-odbc/driver/internal/tsengine"
)

// Logger is the process-wide structured logger. Every connection lifecycle
// event logs through it rather than fmt.Printf/log.Printf (tinySQL's core
// engine only has scattered log.Printf calls in internal/storage/scheduler.go,
// not a structured logger worth imitating here).
var Logger *zap.Logger

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	Logger = l
}

// instanceCache is an in-process
// cache keyed by database path mapping to a shared engine instance.
// In-memory paths (empty string) are never cached — each connection that
// asks for one gets its own fresh tinysql.DB.
type instanceCache struct {
	mu        sync.Mutex
	instances map[string]*tsengine.Engine
}

var cache = &instanceCache{instances: map[string]*tsengine.Engine{}}

// Acquire returns the shared *tsengine.Engine for path, opening it on first
// use. An empty path always returns a brand new engine.
func Acquire(path string, options map[string]string) (*tsengine.Engine, error) {
	if path == "" {
		return tsengine.Open("", options)
	}
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if eng, ok := cache.instances[path]; ok {
		return eng, nil
	}
	eng, err := tsengine.Open(path, options)
	if err != nil {
		return nil, err
	}
	cache.instances[path] = eng
	return eng, nil
}

// Evict drops path from the instance cache, so the next Acquire of path
// opens a new engine.
func Evict(path string) {
	if path == "" {
		return
	}
	cache.mu.Lock()
	delete(cache.instances, path)
	cache.mu.Unlock()
}
