package clock

import "time"

// Timer — отложенный вызов, который можно снять до срабатывания
type Timer interface {
	Stop() bool
}

// Clock абстрагирует время, чтобы тесты двигали его детерминированно,
// а не ждали настоящих задержек.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// System — продакшен-часы поверх пакета time
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

func (System) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
