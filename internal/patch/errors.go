package patch

import "errors"

var (
	// ErrNoReplicas indicates a replica patch on a kind without replicas.
	ErrNoReplicas = errors.New("kind has no replicas")

	// ErrInvalidShape indicates a shape record without a pod spec path.
	ErrInvalidShape = errors.New("invalid shape")

	// ErrInvalidPatch indicates a patch argument that cannot be applied,
	// such as a container patch without a name.
	ErrInvalidPatch = errors.New("invalid patch")

	// ErrInvalidData indicates a data value that is not a scalar.
	ErrInvalidData = errors.New("invalid data value")
)
