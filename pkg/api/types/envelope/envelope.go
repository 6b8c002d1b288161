package envelope

// Envelope wraps every successful response.
type Envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func New[T any](message string, data T) Envelope[T] {
	return Envelope[T]{Message: message, Data: data}
}
