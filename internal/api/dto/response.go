package dto

// Envelope is the response wrapper every mock backend endpoint writes.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK wraps data in a successful envelope.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// OKMessage wraps data with a human-readable message.
func OKMessage(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// Fail builds the error body; clients read its message field.
func Fail(message string) Envelope {
	return Envelope{Success: false, Message: message}
}
