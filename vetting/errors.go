package vetting

import "fmt"

// InputError is returned for requests rejected before entering the pipeline.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

// ResolutionError means a gateway produced a target that is not a usable URL.
type ResolutionError struct {
	URL string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }
