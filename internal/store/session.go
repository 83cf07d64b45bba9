package store

import "sync"

// Session — указатель на активный чат. Не сохраняется и живёт, пока жив
// владелец (обычно одно websocket-соединение). Существование чата здесь
// не проверяется: устаревший id должен выродиться в "не найдено" у
// вызывающего, а не в падение.
type Session struct {
	mu      sync.Mutex
	current string
	set     bool
}

func NewSession() *Session {
	return &Session{}
}

// Select делает чат активным
func (s *Session) Select(id string) {
	s.mu.Lock()
	s.current = id
	s.set = true
	s.mu.Unlock()
}

// Clear сбрасывает выбор
func (s *Session) Clear() {
	s.mu.Lock()
	s.current = ""
	s.set = false
	s.mu.Unlock()
}

// Current возвращает активный чат, если он выбран
func (s *Session) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.set
}
