package graph

import (
	"context"
	"sync"
)

// Statement is a cypher query recorded by MemoryClient.
type Statement struct {
	Query  string
	Params map[string]any
}

// MemoryClient records statements instead of sending them anywhere. Reads
// return queued rows in order, then nothing.
type MemoryClient struct {
	mu     sync.Mutex
	writes []Statement
	reads  []Statement
	rows   [][]Record
	err    error
}

// NewMemoryClient returns an empty recorder.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// Fail makes every later call return err. A nil err clears it.
func (m *MemoryClient) Fail(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// QueueRead appends the rows returned by a future Read.
func (m *MemoryClient) QueueRead(rows ...Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, rows)
}

func (m *MemoryClient) Write(_ context.Context, cypher string, params map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.writes = append(m.writes, Statement{Query: cypher, Params: copyParams(params)})
	return nil
}

func (m *MemoryClient) Read(_ context.Context, cypher string, params map[string]any) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.reads = append(m.reads, Statement{Query: cypher, Params: copyParams(params)})
	if len(m.rows) == 0 {
		return nil, nil
	}
	next := m.rows[0]
	m.rows = m.rows[1:]
	return next, nil
}

func (m *MemoryClient) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *MemoryClient) Close(context.Context) error { return nil }

// Writes returns the recorded write statements.
func (m *MemoryClient) Writes() []Statement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Statement(nil), m.writes...)
}

// Reads returns the recorded read statements.
func (m *MemoryClient) Reads() []Statement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Statement(nil), m.reads...)
}

func copyParams(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
