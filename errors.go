package mddoc

import "errors"

// Sentinel errors for library operations.
var (
	ErrReservedCharacter = errors.New("input contains reserved comment marker characters")
	ErrInputTooLarge     = errors.New("input too large")
	ErrTokenize          = errors.New("tokenizing markdown failed")
	ErrSerialize         = errors.New("serializing document failed")
	ErrNilDocument       = errors.New("document cannot be nil")
	ErrInvalidDocument   = errors.New("invalid document")

	// HTML preview errors.
	ErrHTMLConversion   = errors.New("HTML conversion failed")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrStyleNotFound    = errors.New("style not found")
)
