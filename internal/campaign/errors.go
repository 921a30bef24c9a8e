package campaign

import "errors"

var (
	// ErrMalformedResponse marks a text generation reply that violates
	// the campaign contract. Fatal to that call; no partial campaign
	// is ever returned alongside it.
	ErrMalformedResponse = errors.New("malformed campaign response")

	// ErrNoImageProduced marks an image generation reply that carried
	// no inline image part. Fatal to that call, never retried here.
	ErrNoImageProduced = errors.New("no image produced")
)
