package rite

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnderrun is wrapped by every UnderrunError.
	ErrUnderrun = errors.New("buffer underrun")

	// ErrNoProgram is returned when a LINE or DBG section appears before
	// any IREP section.
	ErrNoProgram = errors.New("section requires a preceding IREP section")
)

// UnderrunError reports a read past the end of the image.
type UnderrunError struct {
	Offset    int // cursor position of the failed read
	Requested int // bytes the read needed
	Available int // bytes left after Offset
	Size      int // total image length
}

func (e *UnderrunError) Error() string {
	return fmt.Sprintf("try to read %d bytes from offset %d but only %d of %d bytes remain",
		e.Requested, e.Offset, e.Available, e.Size)
}

func (e *UnderrunError) Unwrap() error { return ErrUnderrun }

// UnsupportedLineEncodingError reports a debug line table whose type tag is
// neither the array nor the flat map form.
type UnsupportedLineEncodingError struct {
	Type   uint8
	Offset int
}

func (e *UnsupportedLineEncodingError) Error() string {
	return fmt.Sprintf("unsupported line encoding type %d at offset %d", e.Type, e.Offset)
}

// UnknownSectionError reports a top level section tag the dispatcher does
// not handle.
type UnknownSectionError struct {
	Tag    string
	Offset int
	Size   uint32
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("unknown section %q (size %d) at offset %d", displayTag(e.Tag), e.Size, e.Offset)
}

// RecordSizeError reports a declared size that cannot be used to realign
// the cursor because fewer bytes were declared than already consumed.
type RecordSizeError struct {
	What     string
	Offset   int
	Declared uint32
	Consumed int
}

func (e *RecordSizeError) Error() string {
	return fmt.Sprintf("%s at offset %d declares %d bytes but %d were already consumed",
		e.What, e.Offset, e.Declared, e.Consumed)
}

// DepthError reports an IREP tree nested deeper than Options.MaxDepth.
type DepthError struct {
	Offset int
	Depth  int
	Max    int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("irep at offset %d nested %d levels deep, limit is %d", e.Offset, e.Depth, e.Max)
}

// FileIndexError reports a debug file association that points outside the
// section's filename table.
type FileIndexError struct {
	Index  uint16
	Files  int
	Offset int
}

func (e *FileIndexError) Error() string {
	return fmt.Sprintf("filename index %d at offset %d out of range (%d filenames)", e.Index, e.Offset, e.Files)
}

// displayTag trims the NUL padding of a section tag.
func displayTag(tag string) string {
	return strings.TrimRight(tag, " \t\r\n\f\v\x00")
}
