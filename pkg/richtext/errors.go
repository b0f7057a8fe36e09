package richtext

import "errors"

var (
	// ErrImmutableID is returned when an edit tries to rename a field node.
	ErrImmutableID = errors.New("richtext: field id cannot change after insertion")
	// ErrFieldNotFound is returned when no node carries the requested id.
	ErrFieldNotFound = errors.New("richtext: field not found")
	// ErrPositionOutOfRange is returned for selections outside the document.
	ErrPositionOutOfRange = errors.New("richtext: position out of range")
)
