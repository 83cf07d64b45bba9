package authflow

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"gemchat/backend/internal/clock"
	"gemchat/backend/internal/models"
)

// ReferenceCode — демонстрационный код подтверждения
const ReferenceCode = "123456"

// DispatchDelay — имитация сетевой задержки при отправке кода
const DispatchDelay = 1200 * time.Millisecond

// Dispatcher отправляет код подтверждения и зовёт done по завершении.
// Возвращённый таймер позволяет снять ещё не случившуюся отправку.
type Dispatcher interface {
	Dispatch(rec models.PhoneRecord, done func()) clock.Timer
}

// Verifier проверяет введённый код
type Verifier interface {
	Verify(code string) bool
}

// SimulatedDispatcher изображает шлюз SMS: никуда не ходит, просто ждёт
// фиксированную задержку на переданных часах.
type SimulatedDispatcher struct {
	clk   clock.Clock
	delay time.Duration
}

func NewSimulatedDispatcher(clk clock.Clock) *SimulatedDispatcher {
	return &SimulatedDispatcher{clk: clk, delay: DispatchDelay}
}

func (d *SimulatedDispatcher) Dispatch(rec models.PhoneRecord, done func()) clock.Timer {
	return d.clk.AfterFunc(d.delay, done)
}

// StaticVerifier принимает единственный заранее известный код.
// Сам код не хранится — только его bcrypt-хэш.
type StaticVerifier struct {
	hash []byte
}

func NewStaticVerifier(code string) (*StaticVerifier, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &StaticVerifier{hash: hash}, nil
}

func (v *StaticVerifier) Verify(code string) bool {
	return bcrypt.CompareHashAndPassword(v.hash, []byte(code)) == nil
}
