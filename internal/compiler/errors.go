package compiler

import (
	"errors"
	"fmt"
)

// ErrorKind 标识构建失败的类别。
type ErrorKind string

const (
	KindUnreadable      ErrorKind = "unreadable"
	KindNameCollision   ErrorKind = "name_collision"
	KindUnknownMime     ErrorKind = "unknown_mime"
	KindMultiplePrimary ErrorKind = "multiple_primary"
	KindEmptyName       ErrorKind = "empty_name"
	KindCompress        ErrorKind = "compress"
	KindUnsafeRoute     ErrorKind = "unsafe_route"
	KindRouteCollision  ErrorKind = "route_collision"
	KindCanceled        ErrorKind = "canceled"
)

var (
	ErrUnreadable      = errors.New("source file unreadable")
	ErrNameCollision   = errors.New("asset name collision")
	ErrUnknownMime     = errors.New("unsupported file extension")
	ErrMultiplePrimary = errors.New("more than one primary asset")
	ErrEmptyName       = errors.New("empty asset name")
	ErrCompress        = errors.New("compression failed")
	ErrUnsafeRoute     = errors.New("file name cannot be served as a literal route")
	ErrRouteCollision  = errors.New("file names collide case-insensitively")
	ErrCanceled        = errors.New("build canceled")
)

var kindSentinels = map[ErrorKind]error{
	KindUnreadable:      ErrUnreadable,
	KindNameCollision:   ErrNameCollision,
	KindUnknownMime:     ErrUnknownMime,
	KindMultiplePrimary: ErrMultiplePrimary,
	KindEmptyName:       ErrEmptyName,
	KindCompress:        ErrCompress,
	KindUnsafeRoute:     ErrUnsafeRoute,
	KindRouteCollision:  ErrRouteCollision,
	KindCanceled:        ErrCanceled,
}

// BuildError 是致命的构建错误，出现即放弃整张表。
type BuildError struct {
	Kind ErrorKind
	File string
	Err  error
}

func (e *BuildError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("build %s: %s", e.File, e.Kind)
	}
	return fmt.Sprintf("build %s: %s: %v", e.File, e.Kind, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Is 让 errors.Is 可以按类别匹配哨兵错误。
func (e *BuildError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

func newBuildError(kind ErrorKind, file string, err error) *BuildError {
	return &BuildError{Kind: kind, File: file, Err: err}
}
