package generator

import (
	"errors"
	"fmt"
	"strings"
)

const defaultOptionText = "Continue"

var ErrMalformedNode = errors.New("malformed story node")

// nodeData is the permissive view of one node of model output. Children stay
// undecoded until the builder descends into them.
type nodeData struct {
	Content         string
	IsEnding        bool
	IsWinningEnding bool
	options         any
}

type optionData struct {
	Text string
	Next any
}

// decodeNode maps a decoded JSON value onto nodeData. Absent and null fields
// take their defaults; a present field of the wrong type is an error.
func decodeNode(v any, path string) (nodeData, error) {
	var nd nodeData
	if v == nil {
		return nd, nil
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nd, fmt.Errorf("%w at %s: expected object, got %s", ErrMalformedNode, path, typeName(v))
	}

	var err error
	if nd.Content, err = stringField(obj, "content", path); err != nil {
		return nd, err
	}
	if nd.IsEnding, err = boolField(obj, "isEnding", path); err != nil {
		return nd, err
	}
	if nd.IsWinningEnding, err = boolField(obj, "isWinningEnding", path); err != nil {
		return nd, err
	}
	nd.options = obj["options"]

	return nd, nil
}

// optionList validates the shape of the options field. It is only consulted
// for nodes that are not endings.
func (nd nodeData) optionList(path string) ([]any, error) {
	switch opts := nd.options.(type) {
	case nil:
		return nil, nil
	case []any:
		return opts, nil
	default:
		return nil, fmt.Errorf("%w at %s.options: expected array, got %s", ErrMalformedNode, path, typeName(opts))
	}
}

func decodeOption(v any, path string) (optionData, error) {
	od := optionData{Text: defaultOptionText}
	if v == nil {
		return od, nil
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return od, fmt.Errorf("%w at %s: expected object, got %s", ErrMalformedNode, path, typeName(v))
	}

	text, err := stringField(obj, "text", path)
	if err != nil {
		return od, err
	}
	if strings.TrimSpace(text) != "" {
		od.Text = text
	}
	od.Next = obj["nextNode"]

	return od, nil
}

func stringField(obj map[string]any, key, path string) (string, error) {
	switch v := obj[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%w at %s.%s: expected string, got %s", ErrMalformedNode, path, key, typeName(v))
	}
}

func boolField(obj map[string]any, key, path string) (bool, error) {
	switch v := obj[key].(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	default:
		return false, fmt.Errorf("%w at %s.%s: expected boolean, got %s", ErrMalformedNode, path, key, typeName(v))
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
