package dto

type CreateRoomRequest struct {
	Title string `json:"title"`
}
