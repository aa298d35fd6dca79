package merge

import "fmt"

// MaxDepth bounds the nesting of values handled by Merge and DeepCopy.
const MaxDepth = 256

// Shape is the closed set of value kinds the engine dispatches on.
type Shape int

const (
	Null Shape = iota
	Scalar
	List
	Map
)

func (s Shape) String() string {
	switch s {
	case Null:
		return "null"
	case Scalar:
		return "scalar"
	case List:
		return "list"
	case Map:
		return "map"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// ShapeOf classifies a tree value.
func ShapeOf(v any) Shape {
	switch v.(type) {
	case nil:
		return Null
	case map[string]any:
		return Map
	case []any:
		return List
	default:
		return Scalar
	}
}

// Merge deep-merges patch into base and returns a new tree.
// Neither argument is modified.
func Merge(base, patch any) (any, error) {
	return mergeValue(base, patch, 0)
}

func mergeValue(base, patch any, depth int) (any, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}

	switch ShapeOf(patch) {
	case Null:
		return deepCopy(base, depth)
	case Map:
		if ShapeOf(base) == Map {
			return mergeMaps(base.(map[string]any), patch.(map[string]any), depth)
		}
		// merged into an empty map so nested nulls are dropped too
		return mergeMaps(map[string]any{}, patch.(map[string]any), depth)
	default:
		// Scalars and lists replace outright.
		return deepCopy(patch, depth)
	}
}

func mergeMaps(base, patch map[string]any, depth int) (map[string]any, error) {
	result := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		if _, overridden := patch[k]; overridden {
			continue
		}
		c, err := deepCopy(v, depth+1)
		if err != nil {
			return nil, err
		}
		result[k] = c
	}

	for k, pv := range patch {
		bv, exists := base[k]
		if pv == nil {
			// null is a no-op, not a deletion
			if exists {
				c, err := deepCopy(bv, depth+1)
				if err != nil {
					return nil, err
				}
				result[k] = c
			}
			continue
		}
		m, err := mergeValue(bv, pv, depth+1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		result[k] = m
	}

	return result, nil
}

// DeepCopy returns a copy of v that shares no maps or slices with it.
func DeepCopy(v any) (any, error) {
	return deepCopy(v, 0)
}

func deepCopy(v any, depth int) (any, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}

	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, item := range val {
			c, err := deepCopy(item, depth+1)
			if err != nil {
				return nil, err
			}
			result[k] = c
		}
		return result, nil
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			c, err := deepCopy(item, depth+1)
			if err != nil {
				return nil, err
			}
			result[i] = c
		}
		return result, nil
	default:
		// Primitive types are immutable, return as-is
		return v, nil
	}
}
