package domain

import "errors"

var (
	// ErrEmptyQuestion signals a blank question.
	ErrEmptyQuestion = errors.New("empty question")
	// ErrMalformedOutput signals model output that could not be parsed.
	ErrMalformedOutput = errors.New("malformed model output")
	// ErrModelProvider signals a generative model provider failure.
	ErrModelProvider = errors.New("model provider error")
	// ErrSearchProvider signals a web search provider failure.
	ErrSearchProvider = errors.New("search provider error")
)
