package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ComponentDef is the persisted form of a component: either name+props or
// name+src.
type ComponentDef struct {
	Name  string          `json:"name"`
	Props json.RawMessage `json:"props,omitempty"`
	Src   string          `json:"src,omitempty"`
}

// EntityRecord is the persisted form of a single entity
type EntityRecord struct {
	Parent     *string        `json:"parent,omitempty"`
	Index      *int           `json:"index,omitempty"`
	Components []ComponentDef `json:"components,omitempty"`
}

// PersistedScene is the on-disk scene document. Exactly one of Inherits and
// Root is set in a valid document.
type PersistedScene struct {
	Inherits string                  `json:"inherits,omitempty"`
	Root     string                  `json:"root,omitempty"`
	Entities map[string]EntityRecord `json:"entities,omitempty"`

	// EntityOrder lists entity names in declaration order
	EntityOrder []string `json:"-"`
}

// ParsePersistedScene decodes a scene document, keeping the declaration
// order of its entities.
func ParsePersistedScene(data []byte) (*PersistedScene, error) {
	var p PersistedScene
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UnmarshalJSON decodes the document and records entity declaration order,
// which encoding/json drops for maps.
func (p *PersistedScene) UnmarshalJSON(data []byte) error {
	var raw struct {
		Inherits string          `json:"inherits"`
		Root     string          `json:"root"`
		Entities json.RawMessage `json:"entities"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Inherits = raw.Inherits
	p.Root = raw.Root
	p.Entities = nil
	p.EntityOrder = nil

	if len(raw.Entities) == 0 || string(raw.Entities) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Entities))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("entities must be an object")
	}

	p.Entities = make(map[string]EntityRecord)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("invalid entity key: %v", tok)
		}
		var rec EntityRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("entity %s: %w", name, err)
		}
		if _, dup := p.Entities[name]; !dup {
			p.EntityOrder = append(p.EntityOrder, name)
		}
		p.Entities[name] = rec
	}
	_, err = dec.Token()
	return err
}

// MarshalJSON encodes the document with entities in EntityOrder. Names
// missing from EntityOrder follow in sorted order.
func (p PersistedScene) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	sep := ""
	field := func(key string, value any) error {
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		fmt.Fprintf(&buf, "%s%q:", sep, key)
		buf.Write(data)
		sep = ","
		return nil
	}

	if p.Inherits != "" {
		if err := field("inherits", p.Inherits); err != nil {
			return nil, err
		}
	}
	if p.Root != "" {
		if err := field("root", p.Root); err != nil {
			return nil, err
		}
	}
	if len(p.Entities) > 0 {
		fmt.Fprintf(&buf, "%s%q:{", sep, "entities")
		for i, name := range declarationOrder(p.Entities, p.EntityOrder) {
			key, err := json.Marshal(name)
			if err != nil {
				return nil, err
			}
			rec, err := json.Marshal(p.Entities[name])
			if err != nil {
				return nil, fmt.Errorf("entity %s: %w", name, err)
			}
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(rec)
		}
		buf.WriteByte('}')
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Marshal encodes the document with entities in declaration order and
// indentation.
func (p *PersistedScene) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
