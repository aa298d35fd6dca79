package manifest

import "fmt"

// Key identifies a document within a canonical set. Namespace is not part
// of the key.
type Key struct {
	Kind string
	Name string
}

// String renders the key as name.kind, e.g. "cm.ConfigMap".
func (k Key) String() string {
	return k.Name + "." + k.Kind
}

// CanonicalSet is an ordered list of keyed documents with a lookup map.
// Every key in Map is unique.
type CanonicalSet struct {
	List []any
	Map  map[Key]any

	keys []Key
}

// EmptySet returns a canonical set with no documents.
func EmptySet() *CanonicalSet {
	return &CanonicalSet{List: []any{}, Map: map[Key]any{}}
}

// NewCanonicalSet validates and keys docs. The first document failing a
// structural check, or the first duplicate key, fails the whole set.
func NewCanonicalSet(docs []any) (*CanonicalSet, error) {
	set := &CanonicalSet{
		List: make([]any, 0, len(docs)),
		Map:  make(map[Key]any, len(docs)),
		keys: make([]Key, 0, len(docs)),
	}

	for i, doc := range docs {
		key, err := KeyOf(doc, i)
		if err != nil {
			return nil, err
		}
		if _, exists := set.Map[key]; exists {
			return nil, &DuplicateKeyError{Key: key}
		}
		set.Map[key] = doc
		set.List = append(set.List, doc)
		set.keys = append(set.keys, key)
	}

	return set, nil
}

// KeyOf computes the key of a document. index is only used in errors.
// Checks run in the order kind, metadata, metadata.name.
func KeyOf(doc any, index int) (Key, error) {
	obj, _ := doc.(map[string]any)

	kind, ok := obj["kind"].(string)
	if !ok {
		return Key{}, &MissingFieldError{Field: FieldKind, Document: index}
	}

	meta, ok := obj["metadata"].(map[string]any)
	if !ok {
		return Key{}, &MissingFieldError{Field: FieldMetadata, Document: index}
	}

	name, ok := meta["name"].(string)
	if !ok || name == "" {
		return Key{}, &MissingFieldError{Field: FieldName, Document: index}
	}

	return Key{Kind: kind, Name: name}, nil
}

// Len returns the number of documents.
func (s *CanonicalSet) Len() int {
	return len(s.List)
}

// Keys returns the document keys in input order.
func (s *CanonicalSet) Keys() []Key {
	out := make([]Key, len(s.keys))
	copy(out, s.keys)
	return out
}

// Get looks up a document by kind and name.
func (s *CanonicalSet) Get(kind, name string) (any, bool) {
	doc, ok := s.Map[Key{Kind: kind, Name: name}]
	return doc, ok
}

// Replace returns a new set with the document under key swapped for doc.
// The replacement must keep its key; order is preserved.
func (s *CanonicalSet) Replace(key Key, doc any) (*CanonicalSet, error) {
	pos := -1
	for i, k := range s.keys {
		if k == key {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil, fmt.Errorf("replace %s: not in set", key)
	}

	newKey, err := KeyOf(doc, pos)
	if err != nil {
		return nil, fmt.Errorf("replace %s: %w", key, err)
	}
	if newKey != key {
		return nil, fmt.Errorf("replace %s: patched document is keyed %s", key, newKey)
	}

	out := &CanonicalSet{
		List: make([]any, len(s.List)),
		Map:  make(map[Key]any, len(s.Map)),
		keys: s.Keys(),
	}
	copy(out.List, s.List)
	for k, v := range s.Map {
		out.Map[k] = v
	}
	out.List[pos] = doc
	out.Map[key] = doc

	return out, nil
}
