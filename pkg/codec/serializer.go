package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Serializer defines how a slot value is turned into bytes and back.
type Serializer interface {
	// Ext is the storage key suffix (e.g. ".json").
	Ext() string
	// Marshal converts v to bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// Format names accepted by SerializerFor.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// SerializerFor returns the serializer for a format name.
func SerializerFor(format string) (Serializer, error) {
	switch format {
	case "", FormatJSON:
		return NewJSONSerializer(), nil
	case FormatYAML, "yml":
		return NewYAMLSerializer(), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// --- JSON Serializer ---

// JSONSerializer handles indented JSON.
type JSONSerializer struct{}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

func (s *JSONSerializer) Ext() string { return ".json" }

func (s *JSONSerializer) Marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (s *JSONSerializer) Unmarshal(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("invalid json: empty document")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// --- YAML Serializer ---

// YAMLSerializer writes YAML documents. Values are bridged through their
// JSON form so both formats share the same field names, and byte slices
// and instants keep their JSON encodings (base64, RFC 3339).
type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Ext() string { return ".yaml" }

func (s *YAMLSerializer) Marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("failed to convert value to map: %w", err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(generic); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *YAMLSerializer) Unmarshal(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("invalid yaml: empty document")
	}

	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}

	raw, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	return nil
}
