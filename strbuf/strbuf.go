// Package strbuf provides a growable, null-terminated byte string with
// explicit length and capacity management. Unlike strings.Builder or a bare
// []byte, a String tracks its capacity itself and grows it with an exact,
// observable policy (len*2+1 on organic growth), so callers can predict
// allocation behavior byte for byte.
//
// A valid String always keeps a zero byte immediately after its content:
// Cap() >= Len()+1 and the byte at index Len() is 0. Every mutating
// operation preserves both, and a failed operation leaves the String
// untouched.
package strbuf

import (
	"errors"
	"fmt"
)

// Errors returned by String operations. All of them are comparable with
// errors.Is after wrapping.
var (
	// ErrOutOfMemory means an allocation request could not be satisfied
	// (the requested size is negative after arithmetic or cannot be
	// represented). The String is unchanged and still valid.
	ErrOutOfMemory = errors.New("strbuf: cannot satisfy allocation request")

	// ErrOutOfRange means a requested sub-range exceeds the current
	// content length.
	ErrOutOfRange = errors.New("strbuf: range exceeds string length")

	// ErrInvalidArgument means a nil or destroyed String (or a nil
	// required argument) was passed to an operation.
	ErrInvalidArgument = errors.New("strbuf: nil or destroyed string")
)

const maxInt = int(^uint(0) >> 1)

// String is a growable byte string. The backing storage always holds
// exactly Cap() bytes; content occupies [0, Len()) and the byte at Len()
// is the zero terminator.
//
// The zero value of String is not usable; construct with Empty, New, Dup,
// DupString, DupBytes, Sub or Sprintf. A String is not safe for concurrent
// use without external locking.
type String struct {
	value []byte // backing storage, len(value) is the capacity
	len   int    // content length, excluding the terminator
}

func (s *String) valid() bool {
	return s != nil && s.value != nil
}

// setCapacity reallocates the backing storage to exactly capacity bytes,
// preserving content up to min(old capacity, capacity). Callers that shrink
// below len+1 must restore the length invariant before returning.
func (s *String) setCapacity(capacity int) error {
	if capacity < 1 {
		return ErrOutOfMemory
	}
	value := make([]byte, capacity)
	copy(value, s.value)
	s.value = value
	return nil
}

// setLength is the single choke point for every length change. If the new
// length does not fit, capacity grows to length*2+1 first. The terminator
// is written at the new length.
func (s *String) setLength(length int) error {
	if length+1 > len(s.value) {
		if length > (maxInt-1)/2 {
			return ErrOutOfMemory
		}
		if err := s.setCapacity(length*2 + 1); err != nil {
			return err
		}
	}
	s.len = length
	s.value[length] = 0
	return nil
}

// spliceCopy replaces the content with src.
func (s *String) spliceCopy(src []byte) error {
	if err := s.setLength(len(src)); err != nil {
		return err
	}
	copy(s.value, src)
	return nil
}

// spliceAppend grows the content first, then copies src into the extended
// tail. Growth must happen before the destination offset is used because
// it may move the storage.
func (s *String) spliceAppend(src []byte) error {
	old := s.len
	if old > maxInt-1-len(src) {
		return ErrOutOfMemory
	}
	if err := s.setLength(old + len(src)); err != nil {
		return err
	}
	copy(s.value[old:], src)
	return nil
}

// splicePrepend grows the content, shifts the existing bytes right by
// len(src) (overlap-safe, copy has memmove semantics), then fills the
// vacated prefix with src.
func (s *String) splicePrepend(src []byte) error {
	old := s.len
	if old > maxInt-1-len(src) {
		return ErrOutOfMemory
	}
	if err := s.setLength(old + len(src)); err != nil {
		return err
	}
	copy(s.value[len(src):old+len(src)], s.value[:old])
	copy(s.value, src)
	return nil
}

func newString(length int) *String {
	return &String{value: make([]byte, length+1), len: length}
}

// Empty returns a new empty String. Its capacity is 1: the terminator slot
// is always allocated, even with no content.
func Empty() *String {
	return newString(0)
}

// New returns a String of the given length with zero-filled content.
func New(length int) (*String, error) {
	if length < 0 {
		return nil, ErrInvalidArgument
	}
	if length == maxInt {
		return nil, ErrOutOfMemory
	}
	return newString(length), nil
}

// Dup returns an independent copy of src: same length and content, distinct
// storage.
func Dup(src *String) (*String, error) {
	if !src.valid() {
		return nil, ErrInvalidArgument
	}
	return DupBytes(src.value[:src.len]), nil
}

// DupString returns a new String holding a copy of src.
func DupString(src string) *String {
	s := newString(len(src))
	copy(s.value, src)
	return s
}

// DupBytes returns a new String holding a copy of src.
func DupBytes(src []byte) *String {
	s := newString(len(src))
	copy(s.value, src)
	return s
}

// Sub returns a new String holding a copy of src[start : start+length].
func Sub(src []byte, start, length int) (*String, error) {
	if start < 0 || length < 0 || length > len(src) || start > len(src)-length {
		return nil, ErrOutOfRange
	}
	s := newString(length)
	copy(s.value, src[start:start+length])
	return s, nil
}

// Sprintf returns a new String holding the formatted output, sized to fit
// it exactly.
func Sprintf(format string, args ...any) *String {
	return DupBytes(fmt.Appendf(nil, format, args...))
}

// Destroy releases the backing storage and marks the String invalid. Every
// later operation on it fails with ErrInvalidArgument. Destroying a nil or
// already destroyed String is a no-op.
func (s *String) Destroy() {
	if s == nil {
		return
	}
	s.value = nil
	s.len = 0
}

// Clear empties the content. Capacity is kept.
func (s *String) Clear() error {
	if !s.valid() {
		return ErrInvalidArgument
	}
	return s.setLength(0)
}

// Copy replaces the content of s with the content of src.
func (s *String) Copy(src *String) error {
	if !s.valid() || !src.valid() {
		return ErrInvalidArgument
	}
	return s.spliceCopy(src.value[:src.len])
}

// CopyString replaces the content of s with src.
func (s *String) CopyString(src string) error {
	if !s.valid() {
		return ErrInvalidArgument
	}
	return s.spliceCopy([]byte(src))
}

// CopyBytes replaces the content of s with src.
func (s *String) CopyBytes(src []byte) error {
	if !s.valid() {
		return ErrInvalidArgument
	}
	return s.spliceCopy(src)
}

// Append adds the content of src at the end of s.
func (s *String) Append(src *String) error {
	if !s.valid() || !src.valid() {
		return ErrInvalidArgument
	}
	return s.spliceAppend(src.value[:src.len])
}

// AppendString adds src at the end of s.
func (s *String) AppendString(src string) error {
	if !s.valid() {
		return ErrInvalidArgument
	}
	return s.spliceAppend([]byte(src))
}

// AppendBytes adds src at the end of s.
func (s *String) AppendBytes(src []byte) error {
	if !s.valid() {
		return ErrInvalidArgument
	}
	return s.spliceAppend(src)
}

// Prepend adds the content of src at the beginning of s.
func (s *String) Prepend(src *String) error {
	if !s.valid() || !src.valid() {
		return ErrInvalidArgument
	}
	return s.splicePrepend(src.value[:src.len])
}

// PrependString adds src at the beginning of s.
func (s *String) PrependString(src string) error {
	if !s.valid() {
		return ErrInvalidArgument
	}
	return s.splicePrepend([]byte(src))
}

// PrependBytes adds src at the beginning of s.
func (s *String) PrependBytes(src []byte) error {
	if !s.valid() {
		return ErrInvalidArgument
	}
	return s.splicePrepend(src)
}

// Cut replaces the content of s with its own sub-range
// [start, start+length). Fails with ErrOutOfRange if the range exceeds the
// current length; s is unchanged on failure. Capacity is kept.
func (s *String) Cut(start, length int) error {
	if !s.valid() {
		return ErrInvalidArgument
	}
	if start < 0 || length < 0 || length > s.len || start > s.len-length {
		return ErrOutOfRange
	}
	copy(s.value, s.value[start:start+length])
	return s.setLength(length)
}

// Printf writes the formatted output into the existing capacity without
// growing it. If the output fits below the capacity it is written whole
// and the length set to its size; otherwise the write is truncated to
// Cap()-1 bytes. Either way Printf returns the length the full output
// would have had, so callers can detect truncation (and Reserve first if
// they need the whole output).
func (s *String) Printf(format string, args ...any) (int, error) {
	if !s.valid() {
		return 0, ErrInvalidArgument
	}
	out := fmt.Appendf(nil, format, args...)
	n := len(out)
	if n > len(s.value)-1 {
		n = len(s.value) - 1
	}
	if err := s.setLength(n); err != nil {
		return 0, err
	}
	copy(s.value, out[:n])
	return len(out), nil
}

// Len returns the content length, excluding the terminator. A destroyed
// String reports 0.
func (s *String) Len() int {
	if !s.valid() {
		return 0
	}
	return s.len
}

// Cap returns the allocated size in bytes, including the terminator slot.
// A destroyed String reports 0.
func (s *String) Cap() int {
	if !s.valid() {
		return 0
	}
	return len(s.value)
}

// Bytes returns a view of the content. The view aliases the backing
// storage: it is invalidated by any mutating call that reallocates, so it
// must be re-derived after every mutation, never cached across one.
func (s *String) Bytes() []byte {
	if !s.valid() {
		return nil
	}
	return s.value[:s.len:s.len]
}

// String returns a copy of the content.
func (s *String) String() string {
	if !s.valid() {
		return ""
	}
	return string(s.value[:s.len])
}

// Reserve grows the capacity to at least capacity bytes. It is a no-op if
// the capacity is already sufficient, and allocates the requested size
// exactly otherwise: an explicit pre-allocation hint does not get the
// doubling applied to organic growth.
func (s *String) Reserve(capacity int) error {
	if !s.valid() {
		return ErrInvalidArgument
	}
	if capacity <= len(s.value) {
		return nil
	}
	return s.setCapacity(capacity)
}

// Fit shrinks the capacity to Len()+1, the minimum holding the content and
// its terminator.
func (s *String) Fit() error {
	if !s.valid() {
		return ErrInvalidArgument
	}
	return s.setCapacity(s.len + 1)
}
