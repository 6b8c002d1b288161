package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownDataType = errors.New("unknown data type")

// DataType is the logical type of a field.
type DataType string

const (
	DataTypeNumber       DataType = "number"
	DataTypeDecimal      DataType = "decimal"
	DataTypeNumeric      DataType = "numeric"
	DataTypeInt          DataType = "int"
	DataTypeInteger      DataType = "integer"
	DataTypeLong         DataType = "long"
	DataTypeBigint       DataType = "bigint"
	DataTypeFloat        DataType = "float"
	DataTypeDouble       DataType = "double"
	DataTypeString       DataType = "string"
	DataTypeText         DataType = "text"
	DataTypeVarchar      DataType = "varchar"
	DataTypeBoolean      DataType = "boolean"
	DataTypeTimestamp    DataType = "timestamp"
	DataTypeTimestampTZ  DataType = "timestamp_tz"
	DataTypeTimestampNTZ DataType = "timestamp_ntz"
	DataTypeDate         DataType = "date"
	DataTypeArray        DataType = "array"
	DataTypeMap          DataType = "map"
	DataTypeObject       DataType = "object"
	DataTypeRecord       DataType = "record"
	DataTypeStruct       DataType = "struct"
	DataTypeBytes        DataType = "bytes"
	DataTypeNull         DataType = "null"
)

var dataTypes = []DataType{
	DataTypeNumber, DataTypeDecimal, DataTypeNumeric, DataTypeInt, DataTypeInteger, DataTypeLong, DataTypeBigint, DataTypeFloat, DataTypeDouble,
	DataTypeString, DataTypeText, DataTypeVarchar, DataTypeBoolean,
	DataTypeTimestamp, DataTypeTimestampTZ, DataTypeTimestampNTZ, DataTypeDate,
	DataTypeArray, DataTypeMap, DataTypeObject, DataTypeRecord, DataTypeStruct, DataTypeBytes, DataTypeNull,
}

func (d DataType) String() string {
	return string(d)
}

func (d DataType) Valid() bool {
	for _, t := range dataTypes {
		if d == t {
			return true
		}
	}
	return false
}

func AsDataType(s string) (DataType, error) {
	d := DataType(s)
	if !d.Valid() {
		return d, fmt.Errorf("%w: %s", ErrUnknownDataType, s)
	}
	return d, nil
}

// InfoStatus is the lifecycle status of a data contract.
type InfoStatus string

const (
	InfoStatusProposed      InfoStatus = "proposed"
	InfoStatusInDevelopment InfoStatus = "in development"
	InfoStatusActive        InfoStatus = "active"
	InfoStatusDeprecated    InfoStatus = "deprecated"
	InfoStatusRetired       InfoStatus = "retired"
)

var infoStatuses = []InfoStatus{
	InfoStatusProposed, InfoStatusInDevelopment, InfoStatusActive, InfoStatusDeprecated, InfoStatusRetired,
}

func (s InfoStatus) String() string {
	return string(s)
}

func (s InfoStatus) Valid() bool {
	for _, st := range infoStatuses {
		if s == st {
			return true
		}
	}
	return false
}

func quoted[T ~string](values []T) string {
	q := make([]string, len(values))
	for i, v := range values {
		q[i] = "'" + string(v) + "'"
	}
	return strings.Join(q, ", ")
}
