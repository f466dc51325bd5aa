package model

// Result is the uniform shape returned by report operations: a chat-ready
// message plus a presence flag. Data carries the typed payload when HasData
// is true, and Count the true collection size for list results (which may
// exceed the number of rendered entries).
type Result[T any] struct {
	Message string
	HasData bool
	Data    T
	Count   int
}
