package authflow

import (
	"sync"

	"github.com/google/uuid"
)

// Manager держит активные потоки входа по идентификатору: HTTP-клиент
// получает flow id на первом шаге и предъявляет его на следующих.
type Manager struct {
	mu      sync.Mutex
	flows   map[string]*Flow
	newFlow func() *Flow
}

func NewManager(newFlow func() *Flow) *Manager {
	return &Manager{
		flows:   make(map[string]*Flow),
		newFlow: newFlow,
	}
}

// Create заводит новый поток и возвращает его идентификатор
func (m *Manager) Create() (string, *Flow) {
	id := uuid.New().String()
	flow := m.newFlow()

	m.mu.Lock()
	m.flows[id] = flow
	m.mu.Unlock()
	return id, flow
}

// Get возвращает поток по идентификатору
func (m *Manager) Get(id string) (*Flow, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	flow, ok := m.flows[id]
	return flow, ok
}

// Remove закрывает поток и забывает его
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	flow, ok := m.flows[id]
	delete(m.flows, id)
	m.mu.Unlock()

	if ok {
		flow.Close()
	}
}
