package models

// PhoneRecord — телефон с кодом страны, введённый на первом шаге входа
type PhoneRecord struct {
	Country string `json:"country"`
	Phone   string `json:"phone"`
}

// AuthRecord сохраняется в хранилище после успешной проверки кода
type AuthRecord struct {
	Country  string `json:"country"`
	Phone    string `json:"phone"`
	LoggedIn bool   `json:"loggedIn"`
}
