package repository

import "errors"

var (
	// ErrNotFound is returned (wrapped) when a lookup matches no rows
	ErrNotFound = errors.New("record not found")
	// ErrAmbiguous is returned when a lookup expected to be unique matches several rows
	ErrAmbiguous = errors.New("lookup matched more than one record")
)
