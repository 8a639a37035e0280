// Package content holds the page-builder component model: the component
// type tags and the normalised, typed shape of each component's payload.
package content

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// Type is a component type tag. Values are always upper-case.
type Type string

const (
	TypeNavbar     Type = "NAVBAR"
	TypeHero       Type = "HERO"
	TypeCollection Type = "COLLECTION"
	TypeProduct    Type = "PRODUCT"
	TypeFooter     Type = "FOOTER"
)

// ParseType canonicalises a wire value. Unknown tags are kept; they
// normalise to the Other variant.
func ParseType(s string) Type {
	return Type(strings.ToUpper(strings.TrimSpace(s)))
}

// Key is the lower-case form used as the key of an assembled page's
// component map.
func (t Type) Key() string {
	return strings.ToLower(string(t))
}

// Known reports whether t has a dedicated variant.
func (t Type) Known() bool {
	switch t {
	case TypeNavbar, TypeHero, TypeCollection, TypeProduct, TypeFooter:
		return true
	}
	return false
}

// Content is the normalised payload of one component. The concrete type
// is one of Navbar, Hero, Collection, Product, Footer or Other.
type Content interface {
	Type() Type
	ID() int64
}

// Section is the shape shared by the list-style components.
type Section struct {
	ComponentID int64                      `json:"componentId"`
	Items       []json.RawMessage          `json:"items"`
	Styles      map[string]json.RawMessage `json:"styles"`
}

func (s Section) ID() int64 { return s.ComponentID }

type Navbar struct{ Section }

func (Navbar) Type() Type { return TypeNavbar }

type Hero struct{ Section }

func (Hero) Type() Type { return TypeHero }

type Collection struct{ Section }

func (Collection) Type() Type { return TypeCollection }

type Product struct{ Section }

func (Product) Type() Type { return TypeProduct }

// Footer groups link columns and social links.
type Footer struct {
	ComponentID int64                      `json:"componentId"`
	Columns     []json.RawMessage          `json:"columns"`
	SocialLinks []json.RawMessage          `json:"socialLinks"`
	Styles      map[string]json.RawMessage `json:"styles"`
}

func (Footer) Type() Type { return TypeFooter }

func (f Footer) ID() int64 { return f.ComponentID }

// Other carries a payload of an unrecognised component type as-is. A
// payload that is not a JSON object is kept whole in Value and rendered
// under the "content" key.
type Other struct {
	Tag         Type
	ComponentID int64
	Fields      map[string]json.RawMessage
	Value       json.RawMessage
}

func (o Other) Type() Type { return o.Tag }

func (o Other) ID() int64 { return o.ComponentID }

// MarshalJSON flattens the passthrough fields and sets componentId last so
// it wins over any componentId already present in the payload.
func (o Other) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(o.Fields)+2)
	for k, v := range o.Fields {
		out[k] = v
	}
	if o.Value != nil {
		out["content"] = o.Value
	}
	id, err := json.Marshal(o.ComponentID)
	if err != nil {
		return nil, err
	}
	out["componentId"] = id
	return json.Marshal(out)
}

// Normalize turns a stored payload into its canonical typed form. Missing
// or null top-level keys become empty arrays or objects. Inner values are
// never inspected.
func Normalize(componentID int64, t Type, raw []byte) Content {
	doc := parse(raw)

	switch t {
	case TypeNavbar:
		return Navbar{section(componentID, doc)}
	case TypeHero:
		return Hero{section(componentID, doc)}
	case TypeCollection:
		return Collection{section(componentID, doc)}
	case TypeProduct:
		return Product{section(componentID, doc)}
	case TypeFooter:
		return Footer{
			ComponentID: componentID,
			Columns:     array(doc.Get("columns")),
			SocialLinks: array(doc.Get("socialLinks")),
			Styles:      object(doc.Get("styles")),
		}
	default:
		other := Other{Tag: t, ComponentID: componentID, Fields: object(doc)}
		if doc.Exists() && !doc.IsObject() {
			other.Value = json.RawMessage(doc.Raw)
		}
		return other
	}
}

func parse(raw []byte) gjson.Result {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return gjson.Result{}
	}
	return gjson.ParseBytes(raw)
}

func section(componentID int64, doc gjson.Result) Section {
	return Section{
		ComponentID: componentID,
		Items:       array(doc.Get("items")),
		Styles:      object(doc.Get("styles")),
	}
}

// array returns the elements of r, or an empty slice when r is not an array.
func array(r gjson.Result) []json.RawMessage {
	out := []json.RawMessage{}
	if !r.IsArray() {
		return out
	}
	for _, el := range r.Array() {
		out = append(out, json.RawMessage(el.Raw))
	}
	return out
}

// object returns the members of r, or an empty map when r is not an object.
func object(r gjson.Result) map[string]json.RawMessage {
	out := map[string]json.RawMessage{}
	if !r.IsObject() {
		return out
	}
	r.ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = json.RawMessage(value.Raw)
		return true
	})
	return out
}

// DefaultPayload returns the payload a freshly provisioned component of
// type t starts with.
func DefaultPayload(t Type) json.RawMessage {
	switch t {
	case TypeFooter:
		return json.RawMessage(`{"columns":[],"socialLinks":[],"styles":{}}`)
	case TypeNavbar, TypeHero, TypeCollection, TypeProduct:
		return json.RawMessage(`{"items":[],"styles":{}}`)
	default:
		return json.RawMessage(`{}`)
	}
}
