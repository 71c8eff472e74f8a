// Package artifact uploads the output files of a run to object storage.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Publisher stores one output file of a run.
type Publisher interface {
	Publish(ctx context.Context, runID, name string, content []byte) error
}

func validate(runID, name string) (string, error) {
	runID = strings.TrimSpace(runID)
	name = strings.TrimSpace(name)
	if runID == "" {
		return "", errors.New("run_id is required")
	}
	if name == "" {
		return "", errors.New("name is required")
	}
	return objectKey(runID, name), nil
}

func objectKey(runID, name string) string {
	return strings.TrimSpace(runID) + "/" + strings.TrimLeft(strings.TrimSpace(name), "/")
}

// MemoryPublisher keeps published files in memory; used when no bucket is
// configured in tests.
type MemoryPublisher struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{data: map[string][]byte{}}
}

func (m *MemoryPublisher) Publish(_ context.Context, runID, name string, content []byte) error {
	key, err := validate(runID, name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), content...)
	return nil
}

// Get returns the content published under runID/name.
func (m *MemoryPublisher) Get(runID, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.data[objectKey(runID, name)]
	if !ok {
		return nil, fmt.Errorf("%s/%s: not published", runID, name)
	}
	return append([]byte(nil), raw...), nil
}

// Keys lists every published object key in lexical order.
func (m *MemoryPublisher) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.data))
	for k := range m.data {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
