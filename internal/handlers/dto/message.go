package dto

type SendMessageRequest struct {
	Text string `json:"text"`
	// Image — base64 или URL превью; хотя бы одно из полей должно быть задано
	Image string `json:"image"`
}
