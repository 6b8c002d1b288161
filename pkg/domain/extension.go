package domain

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Config is an extension bag of models and fields.
//
// Known keys are hints of physical types for each platform.
// Any other keys are kept in Extra, and written back side by side with known keys.
type Config struct {
	AvroNamespace   string `json:"avro_namespace,omitempty"`
	AvroType        string `json:"avro_type,omitempty"`
	AvroLogicalType string `json:"avro_logical_type,omitempty"`
	BigqueryType    string `json:"bigquery_type,omitempty"`
	SnowflakeType   string `json:"snowflake_type,omitempty"`
	RedshiftType    string `json:"redshift_type,omitempty"`
	SqlserverType   string `json:"sqlserver_type,omitempty"`
	DatabricksType  string `json:"databricks_type,omitempty"`
	GlueType        string `json:"glue_type,omitempty"`

	Extra map[string]any `json:"-" validate:"-"`
}

var (
	configKeys     = jsonKeys(reflect.TypeOf(Config{}))
	definitionKeys = jsonKeys(reflect.TypeOf(Definition{}))
)

func (c Config) MarshalJSON() ([]byte, error) {
	type known Config
	return withExtra(known(c), c.Extra)
}

func (c *Config) UnmarshalJSON(b []byte) error {
	type known Config
	k := known{}
	if err := json.Unmarshal(b, &k); err != nil {
		return err
	}
	extra, err := extraOf(b, configKeys)
	if err != nil {
		return err
	}
	*c = Config(k)
	c.Extra = extra
	return nil
}

func (d Definition) MarshalJSON() ([]byte, error) {
	type known Definition
	return withExtra(known(d), d.Extra)
}

// UnmarshalJSON fills default Precision and Scale when their keys are absent.
// Explicit nulls are kept as nil.
func (d *Definition) UnmarshalJSON(b []byte) error {
	type known Definition
	precision, scale := DefaultDefinitionPrecision, DefaultDefinitionScale
	k := known{Precision: &precision, Scale: &scale}
	if err := json.Unmarshal(b, &k); err != nil {
		return err
	}
	extra, err := extraOf(b, definitionKeys)
	if err != nil {
		return err
	}
	*d = Definition(k)
	d.Extra = extra
	return nil
}

// jsonKeys returns names of fields in JSON.
func jsonKeys(t reflect.Type) map[string]struct{} {
	keys := map[string]struct{}{}
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		keys[name] = struct{}{}
	}
	return keys
}

// extraOf picks up members of JSON object b which are not in known.
//
// It returns nil when there are no such members.
func extraOf(b []byte, known map[string]struct{}) (map[string]any, error) {
	members := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &members); err != nil {
		return nil, err
	}

	var extra map[string]any
	for k, raw := range members {
		if _, ok := known[k]; ok {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		if extra == nil {
			extra = map[string]any{}
		}
		extra[k] = v
	}
	return extra, nil
}

// withExtra encodes v as a JSON object, and merges extra into it.
//
// Members of v win over extra.
func withExtra(v any, extra map[string]any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return b, err
	}

	members := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &members); err != nil {
		return nil, err
	}
	for k, x := range extra {
		if _, ok := members[k]; ok {
			continue
		}
		raw, err := json.Marshal(x)
		if err != nil {
			return nil, err
		}
		members[k] = raw
	}
	return json.Marshal(members)
}
