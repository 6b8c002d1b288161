package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var ErrUnknownFormFieldType = errors.New("unknown form field type")

// Template is a form layout for configuring a connection to a data source.
//
// Id is derived from the name of the file where the template is defined.
type Template struct {
	Id          string                 `json:"id" yaml:"-"`
	Name        string                 `json:"name" yaml:"name"`
	Description string                 `json:"description" yaml:"description"`
	Tabs        map[string]TemplateTab `json:"tabs" yaml:"tabs"`
}

type TemplateTab struct {
	Label       string     `json:"label" yaml:"label"`
	Description string     `json:"description" yaml:"description"`
	Fields      FormFields `json:"fields" yaml:"fields"`
}

// Validate checks that t has everything needed to render a form.
func (t *Template) Validate() error {
	if t.Id == "" {
		return errors.New("template: id is empty")
	}
	if t.Name == "" {
		return fmt.Errorf("template %s: name is empty", t.Id)
	}
	for key, tab := range t.Tabs {
		if tab.Label == "" {
			return fmt.Errorf("template %s: tab %s: label is empty", t.Id, key)
		}
		if err := tab.Fields.validate(); err != nil {
			return fmt.Errorf("template %s: tab %s: %w", t.Id, key, err)
		}
	}
	return nil
}

// FormFieldType discriminates kinds of FormField.
type FormFieldType string

const (
	FormFieldText     FormFieldType = "text"
	FormFieldPassword FormFieldType = "password"
	FormFieldTextArea FormFieldType = "textarea"
	FormFieldNumber   FormFieldType = "number"
	FormFieldBoolean  FormFieldType = "boolean"
	FormFieldSelect   FormFieldType = "select"
	FormFieldArray    FormFieldType = "array"
	FormFieldObject   FormFieldType = "object"
)

// FormField is one of *TextField, *PasswordField, *TextAreaField, *NumberField,
// *BooleanField, *SelectField, *ArrayField or *ObjectField.
type FormField interface {
	FormFieldType() FormFieldType
	Base() *FormFieldBase
}

// FormFieldBase is shared by all kinds of FormField.
type FormFieldBase struct {
	Name     string `json:"name" yaml:"name"`
	Label    string `json:"label" yaml:"label"`
	Required bool   `json:"required" yaml:"required"`
	Hint     string `json:"hint" yaml:"hint"`
	Default  any    `json:"default" yaml:"default"`
}

func (b *FormFieldBase) Base() *FormFieldBase {
	return b
}

type TextField struct {
	FormFieldBase `yaml:",inline"`
	Placeholder   string  `json:"placeholder" yaml:"placeholder"`
	Pattern       *string `json:"pattern" yaml:"pattern"`
}

type PasswordField struct {
	FormFieldBase `yaml:",inline"`
	Placeholder   string `json:"placeholder" yaml:"placeholder"`
}

const DefaultTextAreaRows = 4

type TextAreaField struct {
	FormFieldBase `yaml:",inline"`
	Placeholder   string `json:"placeholder" yaml:"placeholder"`
	Rows          int    `json:"rows" yaml:"rows"`
}

const DefaultNumberStep = 1

type NumberField struct {
	FormFieldBase `yaml:",inline"`
	Min           *float64 `json:"min" yaml:"min"`
	Max           *float64 `json:"max" yaml:"max"`
	Step          float64  `json:"step" yaml:"step"`
}

type BooleanField struct {
	FormFieldBase `yaml:",inline"`
}

type SelectField struct {
	FormFieldBase `yaml:",inline"`
	Options       []any `json:"options" yaml:"options"`
}

// ArrayField is a list of objects. Each of them is described by Items.
type ArrayField struct {
	FormFieldBase `yaml:",inline"`
	Items         ArrayItem `json:"items" yaml:"items"`
}

// ArrayItem is an element of ArrayField. It is always an object.
type ArrayItem struct {
	FormFieldBase `yaml:",inline"`
	Properties    FormFields `json:"properties" yaml:"properties"`
}

type ObjectField struct {
	FormFieldBase `yaml:",inline"`
	Properties    FormFields `json:"properties" yaml:"properties"`
}

func (*TextField) FormFieldType() FormFieldType     { return FormFieldText }
func (*PasswordField) FormFieldType() FormFieldType { return FormFieldPassword }
func (*TextAreaField) FormFieldType() FormFieldType { return FormFieldTextArea }
func (*NumberField) FormFieldType() FormFieldType   { return FormFieldNumber }
func (*BooleanField) FormFieldType() FormFieldType  { return FormFieldBoolean }
func (*SelectField) FormFieldType() FormFieldType   { return FormFieldSelect }
func (*ArrayField) FormFieldType() FormFieldType    { return FormFieldArray }
func (*ObjectField) FormFieldType() FormFieldType   { return FormFieldObject }

// FormFields is an ordered list of FormField.
//
// In JSON and YAML, each element has "type" to tell its kind.
type FormFields []FormField

func newFormField(typ FormFieldType) (FormField, error) {
	switch typ {
	case FormFieldText:
		return &TextField{}, nil
	case FormFieldPassword:
		return &PasswordField{}, nil
	case FormFieldTextArea:
		return &TextAreaField{Rows: DefaultTextAreaRows}, nil
	case FormFieldNumber:
		return &NumberField{Step: DefaultNumberStep}, nil
	case FormFieldBoolean:
		return &BooleanField{}, nil
	case FormFieldSelect:
		return &SelectField{}, nil
	case FormFieldArray:
		return &ArrayField{}, nil
	case FormFieldObject:
		return &ObjectField{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormFieldType, typ)
	}
}

type formFieldHeader struct {
	Type FormFieldType `json:"type" yaml:"type"`
}

func (ff *FormFields) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: form fields should be a sequence", node.Line)
	}

	fields := make(FormFields, 0, len(node.Content))
	for _, item := range node.Content {
		h := formFieldHeader{}
		if err := item.Decode(&h); err != nil {
			return err
		}
		f, err := newFormField(h.Type)
		if err != nil {
			return fmt.Errorf("line %d: %w", item.Line, err)
		}
		if err := item.Decode(f); err != nil {
			return err
		}
		fields = append(fields, f)
	}
	*ff = fields
	return nil
}

func (ff *FormFields) UnmarshalJSON(b []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}

	fields := make(FormFields, 0, len(items))
	for _, item := range items {
		h := formFieldHeader{}
		if err := json.Unmarshal(item, &h); err != nil {
			return err
		}
		f, err := newFormField(h.Type)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(item, f); err != nil {
			return err
		}
		fields = append(fields, f)
	}
	*ff = fields
	return nil
}

func (ff FormFields) MarshalJSON() ([]byte, error) {
	items := make([]json.RawMessage, 0, len(ff))
	for _, f := range ff {
		b, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		members := map[string]json.RawMessage{}
		if err := json.Unmarshal(b, &members); err != nil {
			return nil, err
		}
		members["type"] = json.RawMessage(`"` + string(f.FormFieldType()) + `"`)
		item, err := json.Marshal(members)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return json.Marshal(items)
}

func (ff FormFields) validate() error {
	for nth, f := range ff {
		if f == nil {
			return fmt.Errorf("field #%d is empty", nth)
		}
		b := f.Base()
		if b.Name == "" {
			return fmt.Errorf("field #%d: name is empty", nth)
		}
		if b.Label == "" {
			return fmt.Errorf("field %s: label is empty", b.Name)
		}
		switch f := f.(type) {
		case *SelectField:
			if len(f.Options) == 0 {
				return fmt.Errorf("field %s: select without options", b.Name)
			}
		case *ArrayField:
			if err := f.Items.Properties.validate(); err != nil {
				return fmt.Errorf("field %s: items: %w", b.Name, err)
			}
		case *ObjectField:
			if err := f.Properties.validate(); err != nil {
				return fmt.Errorf("field %s: %w", b.Name, err)
			}
		}
	}
	return nil
}
