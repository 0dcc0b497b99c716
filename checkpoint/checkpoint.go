// Package checkpoint decorates errors with the location they passed through,
// which gives a readable trail through the reader without a full stacktrace.
// A checkpoint keeps both the cause and an optional describing error, and
// errors.Is / errors.As see through to both of them.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// From marks err with the caller's location.
// It returns nil for a nil err. io.EOF and io.ErrUnexpectedEOF are returned
// unchanged because callers compare them with ==.
func From(err error) error {
	if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
		return err
	}

	return newCheckpoint(nil, err)
}

// Wrap marks prev with the caller's location and describes it by err, which
// is usually one of the exported sentinel errors of the calling package:
//
//	var ErrTruncated = errors.New("image is truncated")
//
//	func readSector() error {
//		_, err := io.ReadFull(r, buf)
//		return checkpoint.Wrap(err, ErrTruncated)
//	}
//
// The result matches errors.Is(result, ErrTruncated) as well as
// errors.Is(result, io.ErrUnexpectedEOF).
// Wrap returns nil if prev is nil, so it can wrap a call result directly.
func Wrap(prev, err error) error {
	if prev == nil {
		return nil
	}

	return newCheckpoint(err, prev)
}

// Errorf builds a checkpoint from a sentinel and a formatted detail message.
// The detail becomes the cause, so errors.Is matches the sentinel only.
func Errorf(sentinel error, format string, args ...interface{}) error {
	return newCheckpoint(sentinel, fmt.Errorf(format, args...))
}

func newCheckpoint(err, prev error) *checkpoint {
	// Skip newCheckpoint and the exported helper.
	_, file, line, ok := runtime.Caller(2)

	return &checkpoint{
		err:      err,
		prev:     prev,
		callerOk: ok,
		file:     filepath.Base(file),
		line:     line,
	}
}

type checkpoint struct {
	err  error
	prev error

	callerOk bool
	file     string
	line     int
}

func (c *checkpoint) location() string {
	if !c.callerOk {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", c.file, c.line)
}

func (c *checkpoint) Error() string {
	prev := c.prev.Error()
	if _, ok := c.prev.(*checkpoint); !ok {
		prev = "at unknown\n\t" + strings.ReplaceAll(prev, "\n", "\n\t")
	}

	if c.err == nil {
		return fmt.Sprintf("at %s\n%v", c.location(), prev)
	}
	return fmt.Sprintf("at %s\n\t%v\n%v", c.location(), c.err, prev)
}

func (c *checkpoint) Unwrap() error {
	return c.prev
}

func (c *checkpoint) Is(target error) bool {
	return c.err != nil && errors.Is(c.err, target)
}

func (c *checkpoint) As(target interface{}) bool {
	return c.err != nil && errors.As(c.err, target)
}
