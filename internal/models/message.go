package models

// Sender указывает автора сообщения
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// ContentKind определяет вариант содержимого сообщения
type ContentKind string

const (
	KindText         ContentKind = "text"
	KindImage        ContentKind = "image"
	KindTextAndImage ContentKind = "text_image"
)

// Content — содержимое сообщения: текст, картинка или и то и другое.
// Собирается только через NewContent, так что пустых сообщений не бывает.
type Content struct {
	Kind  ContentKind `json:"kind"`
	Text  string      `json:"text,omitempty"`
	Image string      `json:"image,omitempty"`
}

// NewContent собирает Content из необязательных частей
func NewContent(text, image string) (Content, error) {
	switch {
	case text != "" && image != "":
		return Content{Kind: KindTextAndImage, Text: text, Image: image}, nil
	case text != "":
		return Content{Kind: KindText, Text: text}, nil
	case image != "":
		return Content{Kind: KindImage, Image: image}, nil
	default:
		return Content{}, &ValidationError{Field: "content", Reason: "type a message or upload an image"}
	}
}

type Message struct {
	ID         string  `json:"id"`
	ChatroomID string  `json:"chatroom_id"`
	Sender     Sender  `json:"sender"`
	Content    Content `json:"content"`
	// Timestamp — момент создания в epoch-миллисекундах
	Timestamp int64 `json:"timestamp"`
}
