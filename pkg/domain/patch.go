package domain

import (
	"encoding/json"
	"sort"
)

// Optional is a member of a partial document.
//
// Present is false when the member is absent.
// Null is true when the member is present as null.
type Optional[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Some returns Optional which has v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: v}
}

// NullOf returns Optional which is present as null.
func NullOf[T any]() Optional[T] {
	return Optional[T]{Present: true, Null: true}
}

// Get returns the value and whether it is present and not null.
func (o Optional[T]) Get() (T, bool) {
	if !o.Present || o.Null {
		return *new(T), false
	}
	return o.Value, true
}

// DataContractPatch is a partial data contract to be merged onto a stored one.
//
// Only present members are overwritten.
// Each present member replaces the stored one as a whole.
type DataContractPatch struct {
	Id                        Optional[string]
	DataContractSpecification Optional[string]
	Info                      Optional[*Info]
	Servers                   Optional[map[string]*Server]
	Terms                     Optional[*Terms]
	Models                    Optional[map[string]*Model]
	Definitions               Optional[map[string]*Definition]
	Examples                  Optional[[]*Example]
	ServiceLevel              Optional[*ServiceLevel]
	Quality                   Optional[*Quality]
	Links                     Optional[map[string]string]
	Tags                      Optional[[]string]

	// keys in the document which are not members of DataContract.
	Ignored []string
}

// Each calls f for each present member, in the order of storage columns.
//
// value is nil-ish when null is true.
func (p *DataContractPatch) Each(f func(key string, value any, null bool)) {
	for _, s := range sections {
		s.visit(p, f)
	}
}

// Keys returns names of present members.
func (p *DataContractPatch) Keys() []string {
	keys := []string{}
	p.Each(func(key string, _ any, _ bool) { keys = append(keys, key) })
	return keys
}

// Empty is true when p has no present members.
func (p *DataContractPatch) Empty() bool {
	return len(p.Keys()) == 0
}

// ApplyTo overwrites members of dc with present members of p.
//
// Members present as null are set to zero values.
func (p *DataContractPatch) ApplyTo(dc *DataContract) {
	for _, s := range sections {
		s.apply(p, dc)
	}
}

// not nullable members.
var notNull = map[string]FieldError{
	"id":                          {Msg: "Input should be a valid string", Type: "string_type"},
	"data_contract_specification": {Msg: "Input should be a valid string", Type: "string_type"},
	"info":                        {Msg: "Input should be a valid dictionary", Type: "dict_type"},
}

// ParseDataContractPatch decodes a JSON document into DataContractPatch.
//
// Every member is optional. Present members are validated as in ParseDataContract.
// `id`, `data_contract_specification` and `info` can not be null.
//
// Unknown members are not errors. They are recorded in Ignored.
func ParseDataContractPatch(body []byte) (*DataContractPatch, error) {
	members, err := objectMembers(body)
	if err != nil {
		return nil, err
	}
	members = canonicalized(members)

	dc := &DataContract{}
	patch := &DataContractPatch{}
	verr := &ValidationError{}
	nulls := map[string]bool{}
	decoded := map[string]bool{}

	for key, raw := range members {
		s, ok := sectionOf(key)
		if !ok {
			patch.Ignored = append(patch.Ignored, key)
			continue
		}
		if isNull(raw) {
			if fe, ok := notNull[key]; ok {
				verr.Add(FieldError{Loc: []string{LocBody, key}, Msg: fe.Msg, Type: fe.Type})
				continue
			}
			nulls[key] = true
			continue
		}
		if err := s.decode(dc, raw); err != nil {
			verr.Add(decodeErrors(err, key)...)
			continue
		}
		decoded[key] = true
	}
	sort.Strings(patch.Ignored)

	dc.Normalize()
	for _, fe := range validateStruct(dc, LocBody) {
		if 1 < len(fe.Loc) && decoded[fe.Loc[1]] {
			verr.Add(fe)
		}
	}
	if err := verr.errOrNil(); err != nil {
		return nil, err
	}

	for _, s := range sections {
		switch {
		case nulls[s.key()]:
			s.mark(patch, dc, true)
		case decoded[s.key()]:
			s.mark(patch, dc, false)
		}
	}
	return patch, nil
}

// Members encodes dc as top-level members of JSON.
func (dc *DataContract) Members() (map[string]json.RawMessage, error) {
	b, err := json.Marshal(dc)
	if err != nil {
		return nil, err
	}
	members := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &members); err != nil {
		return nil, err
	}
	return members, nil
}
