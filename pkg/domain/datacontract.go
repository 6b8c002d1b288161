package domain

import "encoding/json"

// DataContract describes the shape, quality and servicing terms of a dataset.
//
// Id and Info are always present in a valid DataContract.
// Other sections are optional, and they are encoded as null when absent.
type DataContract struct {
	DataContractSpecification string                 `json:"data_contract_specification" validate:"required"`
	Id                        string                 `json:"id" validate:"required"`
	Info                      *Info                  `json:"info" validate:"required"`
	Servers                   map[string]*Server     `json:"servers" validate:"omitempty,dive,required"`
	Terms                     *Terms                 `json:"terms"`
	Models                    map[string]*Model      `json:"models" validate:"omitempty,dive,required"`
	Definitions               map[string]*Definition `json:"definitions" validate:"omitempty,dive,required"`
	Examples                  []*Example             `json:"examples" validate:"omitempty,dive,required"`
	ServiceLevel              *ServiceLevel          `json:"service_level"`
	Quality                   *Quality               `json:"quality"`
	Links                     map[string]string      `json:"links" validate:"omitempty,dive,http_url"`
	Tags                      []string               `json:"tags"`
}

type Info struct {
	Title       string     `json:"title" validate:"required"`
	Version     string     `json:"version" validate:"required"`
	Status      InfoStatus `json:"status,omitempty" validate:"omitempty,infostatus"`
	Description string     `json:"description,omitempty"`
	Owner       string     `json:"owner,omitempty"`
	Contact     *Contact   `json:"contact,omitempty"`
}

type Contact struct {
	Name  string `json:"name,omitempty"`
	Url   string `json:"url,omitempty" validate:"omitempty,http_url"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// Server is a physical location hosting the data.
//
// It carries the union of fields of all kinds of servers.
// Only Type is required.
type Server struct {
	Type              string `json:"type" validate:"required"`
	Description       string `json:"description,omitempty"`
	Environment       string `json:"environment,omitempty"`
	Location          string `json:"location,omitempty"`
	EndpointUrl       string `json:"endpoint_url,omitempty"`
	Format            string `json:"format,omitempty"`
	Delimiter         string `json:"delimiter,omitempty"`
	Project           string `json:"project,omitempty"`
	Dataset           string `json:"dataset,omitempty"`
	Account           string `json:"account,omitempty"`
	Database          string `json:"database,omitempty"`
	SchemaName        string `json:"schema_name,omitempty"`
	ClusterIdentifier string `json:"cluster_identifier,omitempty"`
	Host              string `json:"host,omitempty"`
	Port              *int   `json:"port,omitempty"`
	Endpoint          string `json:"endpoint,omitempty"`
	Driver            string `json:"driver,omitempty"`
	Catalog           string `json:"catalog,omitempty"`
	ServiceName       string `json:"service_name,omitempty"`
	Topic             string `json:"topic,omitempty"`
	Stream            string `json:"stream,omitempty"`
	Region            string `json:"region,omitempty"`
	Path              string `json:"path,omitempty"`
}

type Terms struct {
	Usage        string `json:"usage,omitempty"`
	Limitations  string `json:"limitations,omitempty"`
	Billing      string `json:"billing,omitempty"`
	NoticePeriod string `json:"notice_period,omitempty"`
}

const DefaultModelType = "table"

// Model is a logical table, view or structured object.
type Model struct {
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Title       string            `json:"title,omitempty"`
	Fields      map[string]*Field `json:"fields" validate:"required,dive,required"`
	Config      *Config           `json:"config,omitempty"`
}

// Field is an attribute of a model, or a nested attribute of another field.
//
// Constraints (Precision, MinLength, Minimum, ...) are kept as they are,
// whatever Type is. Example is kept as written, so numbers are not rounded.
type Field struct {
	Description      string            `json:"description,omitempty"`
	Type             DataType          `json:"type" validate:"required,datatype"`
	Title            string            `json:"title,omitempty"`
	Enum             []string          `json:"enum,omitempty"`
	Required         bool              `json:"required"`
	Primary          bool              `json:"primary"`
	References       string            `json:"references,omitempty"`
	Unique           bool              `json:"unique"`
	Format           string            `json:"format,omitempty"`
	Precision        *int              `json:"precision,omitempty"`
	Scale            *int              `json:"scale,omitempty"`
	MinLength        *int              `json:"min_length,omitempty"`
	MaxLength        *int              `json:"max_length,omitempty"`
	Pattern          string            `json:"pattern,omitempty"`
	Minimum          *float64          `json:"minimum,omitempty"`
	ExclusiveMinimum *float64          `json:"exclusive_minimum,omitempty"`
	Maximum          *float64          `json:"maximum,omitempty"`
	ExclusiveMaximum *float64          `json:"exclusive_maximum,omitempty"`
	Example          json.RawMessage   `json:"example,omitempty"`
	PII              *bool             `json:"pii,omitempty"`
	Classification   string            `json:"classification,omitempty"`
	Tags             []string          `json:"tags,omitempty"`
	Links            map[string]string `json:"links,omitempty"`
	Ref              string            `json:"$ref,omitempty"`
	Fields           map[string]*Field `json:"fields,omitempty" validate:"omitempty,dive,required"`
	Items            *Field            `json:"items,omitempty"`
	Keys             *Field            `json:"keys,omitempty"`
	Values           *Field            `json:"values,omitempty"`
	Config           *Config           `json:"config,omitempty"`
}

const (
	DefaultDefinitionDomain    = "global"
	DefaultDefinitionPrecision = 38
	DefaultDefinitionScale     = 0
)

// Definition is a reusable field definition, referred from Field.Ref .
//
// Keys not known are kept in Extra.
// Precision and Scale are nil only when they are null explicitly.
type Definition struct {
	Name             string            `json:"name" validate:"required"`
	Type             DataType          `json:"type" validate:"required,datatype"`
	Domain           string            `json:"domain"`
	Title            string            `json:"title,omitempty"`
	Description      string            `json:"description,omitempty"`
	Enum             []string          `json:"enum,omitempty"`
	Format           string            `json:"format,omitempty"`
	Precision        *int              `json:"precision"`
	Scale            *int              `json:"scale"`
	MinLength        *int              `json:"min_length,omitempty"`
	MaxLength        *int              `json:"max_length,omitempty"`
	Pattern          string            `json:"pattern,omitempty"`
	Minimum          *float64          `json:"minimum,omitempty"`
	ExclusiveMinimum *float64          `json:"exclusive_minimum,omitempty"`
	Maximum          *float64          `json:"maximum,omitempty"`
	ExclusiveMaximum *float64          `json:"exclusive_maximum,omitempty"`
	Example          json.RawMessage   `json:"example,omitempty"`
	PII              *bool             `json:"pii,omitempty"`
	Classification   string            `json:"classification,omitempty"`
	Tags             []string          `json:"tags,omitempty"`
	Links            map[string]string `json:"links,omitempty" validate:"omitempty,dive,http_url"`
	Fields           map[string]*Field `json:"fields,omitempty" validate:"omitempty,dive,required"`
	Items            *Field            `json:"items,omitempty"`
	Keys             *Field            `json:"keys,omitempty"`
	Values           *Field            `json:"values,omitempty"`

	Extra map[string]any `json:"-" validate:"-"`
}

type Example struct {
	Type        string `json:"type" validate:"required"`
	Description string `json:"description,omitempty"`
	Model       string `json:"model" validate:"required"`
	Data        string `json:"data" validate:"required"`
}

type ServiceLevel struct {
	Availability *Availability `json:"availability,omitempty"`
	Retention    *Retention    `json:"retention,omitempty"`
	Latency      *Latency      `json:"latency,omitempty"`
	Freshness    *Freshness    `json:"freshness,omitempty"`
	Frequency    *Frequency    `json:"frequency,omitempty"`
	Support      *Support      `json:"support,omitempty"`
	Backup       *Backup       `json:"backup,omitempty"`
}

type Availability struct {
	Description string `json:"description,omitempty"`
	Percentage  string `json:"percentage,omitempty"`
}

type Retention struct {
	Description    string `json:"description,omitempty"`
	Period         string `json:"period,omitempty"`
	Unlimited      *bool  `json:"unlimited,omitempty"`
	TimestampField string `json:"timestamp_field,omitempty"`
}

type Latency struct {
	Description             string `json:"description,omitempty"`
	Threshold               string `json:"threshold,omitempty"`
	SourceTimestampField    string `json:"source_timestamp_field,omitempty"`
	ProcessedTimestampField string `json:"processed_timestamp_field,omitempty"`
}

type Freshness struct {
	Description    string `json:"description,omitempty"`
	Threshold      string `json:"threshold,omitempty"`
	TimestampField string `json:"timestamp_field,omitempty"`
}

type Frequency struct {
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Interval    string `json:"interval,omitempty"`
	Cron        string `json:"cron,omitempty"`
}

type Support struct {
	Description  string `json:"description,omitempty"`
	Time         string `json:"time,omitempty"`
	ResponseTime string `json:"response_time,omitempty"`
}

type Backup struct {
	Description   string `json:"description,omitempty"`
	Interval      string `json:"interval,omitempty"`
	Cron          string `json:"cron,omitempty"`
	RecoveryTime  string `json:"recovery_time,omitempty"`
	RecoveryPoint string `json:"recovery_point,omitempty"`
}

// Normalize fills defaults into dc in place.
//
// It is idempotent.
func (dc *DataContract) Normalize() {
	for _, m := range dc.Models {
		if m != nil && m.Type == "" {
			m.Type = DefaultModelType
		}
	}
	for _, d := range dc.Definitions {
		if d == nil {
			continue
		}
		if d.Domain == "" {
			d.Domain = DefaultDefinitionDomain
		}
	}
}
