package authflow

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"gemchat/backend/internal/clock"
	"gemchat/backend/internal/models"
	"gemchat/backend/internal/storage"
)

// Step — текущий шаг формы входа
type Step string

const (
	StepPhone Step = "collecting-phone"
	StepOTP   Step = "collecting-otp"
)

const (
	// ResendCooldown — пауза перед повторной отправкой кода
	ResendCooldown = 30 * time.Second
)

var (
	ErrWrongStep      = errors.New("operation not allowed at this step")
	ErrCooldownActive = errors.New("resend cooldown has not elapsed")

	// ErrInvalidOTP — неверный код; форма остаётся на шаге OTP
	ErrInvalidOTP = &models.ValidationError{Field: "otp", Reason: "invalid OTP"}

	phonePattern = regexp.MustCompile(`^\d{6,15}$`)
	otpPattern   = regexp.MustCompile(`^\d{6}$`)
)

// Flow — конечный автомат входа: телефон -> код -> вход.
// Отправка кода идёт через Dispatcher с имитацией сетевой задержки,
// проверка — через Verifier, время — через Clock; всё подменяемо в тестах.
type Flow struct {
	mu       sync.Mutex
	step     Step
	phone    *models.PhoneRecord
	sending  bool
	resendAt time.Time
	pending  clock.Timer
	closed   bool

	clk        clock.Clock
	dispatcher Dispatcher
	verifier   Verifier
	blobs      storage.BlobStore
}

func New(clk clock.Clock, dispatcher Dispatcher, verifier Verifier, blobs storage.BlobStore) *Flow {
	return &Flow{
		step:       StepPhone,
		clk:        clk,
		dispatcher: dispatcher,
		verifier:   verifier,
		blobs:      blobs,
	}
}

// Step возвращает текущий шаг
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Sending сообщает, идёт ли сейчас имитированная отправка кода
func (f *Flow) Sending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sending
}

// Cooldown — целые секунды до разрешённой переотправки, не меньше нуля
func (f *Flow) Cooldown() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	left := f.resendAt.Sub(f.clk.Now())
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

// SubmitPhone проверяет телефон и запускает отправку кода. Переход на шаг
// OTP происходит, когда Dispatcher отчитается о завершении.
func (f *Flow) SubmitPhone(country, phone string) error {
	country = strings.TrimSpace(country)
	if country == "" {
		return &models.ValidationError{Field: "country", Reason: "country is required"}
	}
	if !phonePattern.MatchString(phone) {
		return &models.ValidationError{Field: "phone", Reason: "phone number must be 6-15 digits"}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepPhone {
		return ErrWrongStep
	}
	if f.sending || f.closed {
		return ErrWrongStep
	}

	rec := models.PhoneRecord{Country: country, Phone: phone}
	f.sending = true
	f.pending = f.dispatcher.Dispatch(rec, func() { f.dispatched(rec) })
	return nil
}

func (f *Flow) dispatched(rec models.PhoneRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.sending = false
	f.phone = &rec
	f.step = StepOTP
	f.resendAt = f.clk.Now().Add(ResendCooldown)
}

// SubmitOTP проверяет код. Успех сохраняет запись входа под ключом "auth";
// неверный код оставляет форму на шаге OTP.
func (f *Flow) SubmitOTP(ctx context.Context, code string) error {
	f.mu.Lock()
	if f.step != StepOTP {
		f.mu.Unlock()
		return ErrWrongStep
	}
	phone := *f.phone
	f.mu.Unlock()

	if !otpPattern.MatchString(code) {
		return &models.ValidationError{Field: "otp", Reason: "OTP must be 6 digits"}
	}
	if !f.verifier.Verify(code) {
		return ErrInvalidOTP
	}

	rec := models.AuthRecord{Country: phone.Country, Phone: phone.Phone, LoggedIn: true}
	return f.blobs.Save(ctx, storage.KeyAuth, rec)
}

// Resend повторяет отправку кода. Разрешён только после того, как пауза
// дошла до нуля; успешная переотправка взводит её заново.
func (f *Flow) Resend() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepOTP || f.closed {
		return ErrWrongStep
	}
	if f.sending {
		return ErrCooldownActive
	}
	if f.clk.Now().Before(f.resendAt) {
		return ErrCooldownActive
	}

	rec := *f.phone
	f.sending = true
	f.pending = f.dispatcher.Dispatch(rec, func() { f.redispatched() })
	return nil
}

func (f *Flow) redispatched() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.sending = false
	f.resendAt = f.clk.Now().Add(ResendCooldown)
}

// Phone возвращает принятый телефон, если шаг телефона уже пройден
func (f *Flow) Phone() (models.PhoneRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phone == nil {
		return models.PhoneRecord{}, false
	}
	return *f.phone, true
}

// Close снимает отложенную отправку; дальнейшие операции отклоняются.
// Зовётся при сносе потока, чтобы таймер не менял состояние после него.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	if f.pending != nil {
		f.pending.Stop()
	}
}
