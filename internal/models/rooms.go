package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrNotObject is returned when a room or observation mapping is not a JSON object.
var ErrNotObject = errors.New("expected a JSON object")

// RoomDeclaration maps a human room label to the token its image filenames start with.
type RoomDeclaration struct {
	Label string `json:"label" yaml:"label"`
	Token string `json:"token" yaml:"token"`
}

// DeclaredRooms is the operator's label→token mapping. Declaration order is
// significant: the first matching token wins.
type DeclaredRooms []RoomDeclaration

// UnmarshalJSON decodes a JSON object keeping the order its keys were written in.
// Every value must be a string. A repeated label keeps its first position and
// takes the last token given for it.
func (d *DeclaredRooms) UnmarshalJSON(data []byte) error {
	rooms := DeclaredRooms{}
	err := decodeStringObject(data, rooms.set)
	if err != nil {
		return fmt.Errorf("rooms: %w", err)
	}
	*d = rooms
	return nil
}

func (d *DeclaredRooms) set(label, token string) {
	for i := range *d {
		if (*d)[i].Label == label {
			(*d)[i].Token = token
			return
		}
	}
	*d = append(*d, RoomDeclaration{Label: label, Token: token})
}

// UnmarshalYAML decodes a YAML mapping keeping the order its keys were written in.
func (d *DeclaredRooms) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("rooms: line %d: expected a mapping of label to token", node.Line)
	}
	rooms := make(DeclaredRooms, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("rooms: line %d: token for %q must be a string", value.Line, key.Value)
		}
		rooms.set(key.Value, value.Value)
	}
	*d = rooms
	return nil
}

// ObservationMap holds free-text observations keyed by literal room key.
type ObservationMap map[string]string

// UnmarshalJSON rejects non-string values instead of coercing them.
func (o *ObservationMap) UnmarshalJSON(data []byte) error {
	observations := ObservationMap{}
	err := decodeStringObject(data, func(key, value string) {
		observations[key] = value
	})
	if err != nil {
		return fmt.Errorf("observacoes: %w", err)
	}
	*o = observations
	return nil
}

// ParseDeclaredRooms decodes the rooms form field. Empty input yields no declarations.
func ParseDeclaredRooms(raw string) (DeclaredRooms, error) {
	if raw == "" {
		return DeclaredRooms{}, nil
	}
	var rooms DeclaredRooms
	if err := json.Unmarshal([]byte(raw), &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// ParseObservations decodes the observacoes form field. Empty input yields no observations.
func ParseObservations(raw string) (ObservationMap, error) {
	if raw == "" {
		return ObservationMap{}, nil
	}
	var observations ObservationMap
	if err := json.Unmarshal([]byte(raw), &observations); err != nil {
		return nil, err
	}
	return observations, nil
}

// decodeStringObject walks a flat JSON object of string values in document order.
func decodeStringObject(data []byte, visit func(key, value string)) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotObject
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
		key := keyTok.(string)

		valueTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
		value, ok := valueTok.(string)
		if !ok {
			return fmt.Errorf("value for %q must be a string", key)
		}
		visit(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("invalid JSON: trailing data after object")
	}
	return nil
}
