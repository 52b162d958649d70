package types

type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the bot reply, or the fixed failure text on errors.
type ChatResponse struct {
	Reply string `json:"reply"`
}

type ClassifyRequest struct {
	Text string `json:"text"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
