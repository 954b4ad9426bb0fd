package dto

// Response is the envelope every API endpoint answers with
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

// OK wraps data in a successful envelope
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// List wraps a collection and reports its size in count
func List[T any](items []T) Response {
	if items == nil {
		items = []T{}
	}
	count := len(items)
	return Response{Success: true, Data: items, Count: &count}
}

// Message returns a successful envelope that carries only a message
func Message(message string) Response {
	return Response{Success: true, Message: message}
}
