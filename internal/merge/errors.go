package merge

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks. The typed errors below carry the
// details and match these sentinels.
var (
	// ErrElementNotFound indicates a keyed list has no element with the requested key.
	ErrElementNotFound = errors.New("element not found")

	// ErrDuplicateElement indicates a keyed list holds two elements with the same key.
	ErrDuplicateElement = errors.New("duplicate element")

	// ErrNotAList indicates a keyed step addressed a value that is not a list.
	ErrNotAList = errors.New("not a list")

	// ErrNotAMap indicates a path stepped through a value that is not a map.
	ErrNotAMap = errors.New("not a map")

	// ErrInvalidPath indicates a path string could not be parsed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrTooDeep indicates a value nests deeper than MaxDepth.
	ErrTooDeep = errors.New("value nested too deeply")
)

// ElementNotFoundError reports a keyed lookup that matched nothing.
// Its message is matched by consumers and must stay stable.
type ElementNotFoundError struct {
	Label string
	Key   string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("%s with name %s not found", e.Label, e.Key)
}

func (e *ElementNotFoundError) Is(target error) bool {
	return target == ErrElementNotFound
}

// DuplicateElementError reports a keyed list with more than one element for a key.
type DuplicateElementError struct {
	Label string
	Key   string
}

func (e *DuplicateElementError) Error() string {
	return fmt.Sprintf("%s with name %s is not unique", e.Label, e.Key)
}

func (e *DuplicateElementError) Is(target error) bool {
	return target == ErrDuplicateElement
}
