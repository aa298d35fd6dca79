package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
)

// MaxInputBytes bounds the size of a single Load call.
const MaxInputBytes = 32 << 20

// decoderBufferSize is how far the decoder looks ahead to tell JSON from YAML.
const decoderBufferSize = 4096

// Load decodes a stream of YAML documents or JSON values into untyped trees.
// Documents that decode to null, including empty ones between separators,
// are dropped.
func Load(data []byte) ([]any, error) {
	if len(data) > MaxInputBytes {
		return nil, fmt.Errorf("%w: input is %d bytes, limit is %d", ErrParse, len(data), MaxInputBytes)
	}

	docs := []any{}
	d := utilyaml.NewYAMLOrJSONDecoder(bytes.NewReader(data), decoderBufferSize)
	for i := 0; ; i++ {
		var doc any
		if err := d.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &ParseError{Document: i, Err: err}
		}
		if doc == nil {
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// LoadString is Load for text input.
func LoadString(text string) ([]any, error) {
	return Load([]byte(text))
}

// ParseAsSet loads data and keys the result in one step.
func ParseAsSet(data []byte) (*CanonicalSet, error) {
	docs, err := Load(data)
	if err != nil {
		return nil, err
	}
	return NewCanonicalSet(docs)
}
