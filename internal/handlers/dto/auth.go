package dto

type PhoneRequest struct {
	Country string `json:"country"`
	Phone   string `json:"phone"`
}

type OTPRequest struct {
	FlowID string `json:"flow_id" binding:"required"`
	OTP    string `json:"otp"`
}

type ResendRequest struct {
	FlowID string `json:"flow_id" binding:"required"`
}
