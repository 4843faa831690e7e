package slogx

// Keys for common log attributes.
const (
	ErrorKey = "error"
)
