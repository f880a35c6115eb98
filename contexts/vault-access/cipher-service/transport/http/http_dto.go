package httptransport

type AccessResponse struct {
	CipherID string `json:"cipher_id"`
	UserID   string `json:"user_id"`
	CanRead  bool   `json:"can_read"`
	CanWrite bool   `json:"can_write"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
