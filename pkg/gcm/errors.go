package gcm

import "errors"

var (
	// ErrImageOpen is returned when the disc image cannot be opened or read.
	ErrImageOpen = errors.New("disc image I/O error")

	// ErrTableCorrupt is returned when the filesystem table does not match the fixed 12-byte entry layout.
	ErrTableCorrupt = errors.New("filesystem table corrupt")

	// ErrNotFound is returned when a lookup by name matches no file.
	ErrNotFound = errors.New("file not found")

	// ErrAmbiguous is returned when a lookup by name matches more than one file.
	ErrAmbiguous = errors.New("file name is ambiguous")
)
