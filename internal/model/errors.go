package model

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds. Match them with errors.Is; the typed errors below carry details.
var (
	ErrParse               = errors.New("parse failure")
	ErrMissingModule       = errors.New("module file not found")
	ErrReExportCycle       = errors.New("unresolved re-export cycle")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrFormatting          = errors.New("formatting failure")
)

// ParseError reports a source file that could not be read or parsed,
// or a module declaration whose file does not exist.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ReExportCycleError reports a chain of re-exports that never reaches a declaration.
// Chain lists the visited (module path, name) pairs as "path::name", ending with the
// repeated entry.
type ReExportCycleError struct {
	Chain []string
}

func (e *ReExportCycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrReExportCycle, strings.Join(e.Chain, " -> "))
}

func (e *ReExportCycleError) Is(target error) bool { return target == ErrReExportCycle }

// UnsupportedLanguageError reports a language with no registered analyser.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("%v %q", ErrUnsupportedLanguage, e.Language)
}

func (e *UnsupportedLanguageError) Is(target error) bool { return target == ErrUnsupportedLanguage }

// FormattingError reports a namespace the language formatter could not render.
type FormattingError struct {
	Namespace string
	Err       error
}

func (e *FormattingError) Error() string {
	return fmt.Sprintf("formatting namespace %s: %v", e.Namespace, e.Err)
}

func (e *FormattingError) Unwrap() error { return e.Err }

func (e *FormattingError) Is(target error) bool { return target == ErrFormatting }
