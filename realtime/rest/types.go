package rest

// PostedMessage is the server's echo of an accepted chat message. Both
// fields come back HTML-escaped by the server.
type PostedMessage struct {
	Nick    string `json:"nick"`
	Message string `json:"message"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}
