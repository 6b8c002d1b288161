package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	domerr "github.com/mycelium-catalog/mycelium/pkg/domain/errors"
)

// root of locations in FieldError
const LocBody = "body"

// alternative names of top-level members.
var aliases = map[string]string{
	"dataContractSpecification": "data_contract_specification",
}

// section is a top-level member of a data contract document.
type section interface {
	key() string

	// decode raw into the member of dc.
	decode(dc *DataContract, raw json.RawMessage) error

	// copy the member of dc into p, and mark it present.
	mark(p *DataContractPatch, dc *DataContract, null bool)

	// overwrite the member of dc with p, if p has it.
	apply(p *DataContractPatch, dc *DataContract)

	// visit p's member, if p has it.
	visit(p *DataContractPatch, f func(key string, value any, null bool))
}

type member[T any] struct {
	name  string
	of    func(*DataContract) *T
	patch func(*DataContractPatch) *Optional[T]
}

func (m member[T]) key() string {
	return m.name
}

func (m member[T]) decode(dc *DataContract, raw json.RawMessage) error {
	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		return err
	}
	*m.of(dc) = *v
	return nil
}

func (m member[T]) mark(p *DataContractPatch, dc *DataContract, null bool) {
	o := m.patch(p)
	o.Present = true
	o.Null = null
	if null {
		o.Value = *new(T)
	} else {
		o.Value = *m.of(dc)
	}
}

func (m member[T]) apply(p *DataContractPatch, dc *DataContract) {
	if o := m.patch(p); o.Present {
		*m.of(dc) = o.Value
	}
}

func (m member[T]) visit(p *DataContractPatch, f func(string, any, bool)) {
	if o := m.patch(p); o.Present {
		f(m.name, o.Value, o.Null)
	}
}

// sections in the order of storage columns.
var sections = []section{
	member[string]{
		name:  "id",
		of:    func(dc *DataContract) *string { return &dc.Id },
		patch: func(p *DataContractPatch) *Optional[string] { return &p.Id },
	},
	member[string]{
		name:  "data_contract_specification",
		of:    func(dc *DataContract) *string { return &dc.DataContractSpecification },
		patch: func(p *DataContractPatch) *Optional[string] { return &p.DataContractSpecification },
	},
	member[*Info]{
		name:  "info",
		of:    func(dc *DataContract) **Info { return &dc.Info },
		patch: func(p *DataContractPatch) *Optional[*Info] { return &p.Info },
	},
	member[map[string]*Server]{
		name:  "servers",
		of:    func(dc *DataContract) *map[string]*Server { return &dc.Servers },
		patch: func(p *DataContractPatch) *Optional[map[string]*Server] { return &p.Servers },
	},
	member[*Terms]{
		name:  "terms",
		of:    func(dc *DataContract) **Terms { return &dc.Terms },
		patch: func(p *DataContractPatch) *Optional[*Terms] { return &p.Terms },
	},
	member[map[string]*Model]{
		name:  "models",
		of:    func(dc *DataContract) *map[string]*Model { return &dc.Models },
		patch: func(p *DataContractPatch) *Optional[map[string]*Model] { return &p.Models },
	},
	member[map[string]*Definition]{
		name:  "definitions",
		of:    func(dc *DataContract) *map[string]*Definition { return &dc.Definitions },
		patch: func(p *DataContractPatch) *Optional[map[string]*Definition] { return &p.Definitions },
	},
	member[[]*Example]{
		name:  "examples",
		of:    func(dc *DataContract) *[]*Example { return &dc.Examples },
		patch: func(p *DataContractPatch) *Optional[[]*Example] { return &p.Examples },
	},
	member[*ServiceLevel]{
		name:  "service_level",
		of:    func(dc *DataContract) **ServiceLevel { return &dc.ServiceLevel },
		patch: func(p *DataContractPatch) *Optional[*ServiceLevel] { return &p.ServiceLevel },
	},
	member[*Quality]{
		name:  "quality",
		of:    func(dc *DataContract) **Quality { return &dc.Quality },
		patch: func(p *DataContractPatch) *Optional[*Quality] { return &p.Quality },
	},
	member[map[string]string]{
		name:  "links",
		of:    func(dc *DataContract) *map[string]string { return &dc.Links },
		patch: func(p *DataContractPatch) *Optional[map[string]string] { return &p.Links },
	},
	member[[]string]{
		name:  "tags",
		of:    func(dc *DataContract) *[]string { return &dc.Tags },
		patch: func(p *DataContractPatch) *Optional[[]string] { return &p.Tags },
	},
}

func sectionOf(key string) (section, bool) {
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	for _, s := range sections {
		if s.key() == key {
			return s, true
		}
	}
	return nil, false
}

// Sections returns names of top-level members of DataContract, in the order of storage columns.
func Sections() []string {
	keys := make([]string, len(sections))
	for i, s := range sections {
		keys[i] = s.key()
	}
	return keys
}

// ParseDataContract decodes a JSON document into DataContract,
// fills defaults and validates it.
//
// # Returns
//
// - *DataContract: valid data contract
//
// - error: *ValidationError when the document violates the schema.
// When body is not JSON, the error is ErrMalformed.
func ParseDataContract(body []byte) (*DataContract, error) {
	members, err := objectMembers(body)
	if err != nil {
		return nil, err
	}
	return ParseDataContractMembers(members)
}

// ParseDataContractMembers does the same as ParseDataContract for a document
// already split into top-level members.
//
// Members not known are ignored.
func ParseDataContractMembers(members map[string]json.RawMessage) (*DataContract, error) {
	members = canonicalized(members)

	dc := &DataContract{}
	verr := &ValidationError{}
	failed := map[string]bool{}
	for _, s := range sections {
		raw, ok := members[s.key()]
		if !ok {
			continue
		}
		if err := s.decode(dc, raw); err != nil {
			verr.Add(decodeErrors(err, s.key())...)
			failed[s.key()] = true
		}
	}

	dc.Normalize()
	for _, fe := range validateStruct(dc, LocBody) {
		if 1 < len(fe.Loc) && failed[fe.Loc[1]] {
			continue
		}
		verr.Add(fe)
	}

	if err := verr.errOrNil(); err != nil {
		return nil, err
	}
	return dc, nil
}

// objectMembers splits JSON object into its members.
func objectMembers(body []byte) (map[string]json.RawMessage, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: request body is not a JSON", domerr.ErrMalformed)
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil || members == nil {
		return nil, &ValidationError{Errors: []FieldError{
			{Loc: []string{LocBody}, Msg: "Input should be a valid dictionary", Type: "dict_type"},
		}}
	}
	return members, nil
}

// canonicalized resolves aliased keys. Canonical names win over aliases.
func canonicalized(members map[string]json.RawMessage) map[string]json.RawMessage {
	ret := make(map[string]json.RawMessage, len(members))
	for k, v := range members {
		if canonical, ok := aliases[k]; ok {
			if _, dup := members[canonical]; dup {
				continue
			}
			k = canonical
		}
		ret[k] = v
	}
	return ret
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeErrors(err error, key string) []FieldError {
	if verr := new(ValidationError); errors.As(err, &verr) {
		return verr.Prefixed(LocBody, key).Errors
	}

	if terr := new(json.UnmarshalTypeError); errors.As(err, &terr) {
		loc := []string{LocBody, key}
		if terr.Field != "" {
			loc = append(loc, strings.Split(terr.Field, ".")...)
		}
		kind := kindOf(terr.Type)
		return []FieldError{{
			Loc:  loc,
			Msg:  "Input should be a valid " + kind,
			Type: strings.ReplaceAll(kind, " ", "_") + "_type",
		}}
	}

	return []FieldError{{Loc: []string{LocBody, key}, Msg: err.Error(), Type: "value_error"}}
}

func kindOf(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Map, reflect.Struct:
		return "dictionary"
	case reflect.Slice, reflect.Array:
		return "list"
	default:
		return t.String()
	}
}
