package postgres

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgtype"
	"github.com/mycelium-catalog/mycelium/pkg/domain"
)

const Table = "data_contracts"

// Row is a record of the data_contracts table.
//
// Sections of a data contract other than id and data_contract_specification
// are stored as jsonb, one column for each.
type Row struct {
	Id                        string       `sql:"id"`
	DataContractSpecification string       `sql:"data_contract_specification"`
	Info                      pgtype.JSONB `sql:"info"`
	Servers                   pgtype.JSONB `sql:"servers"`
	Terms                     pgtype.JSONB `sql:"terms"`
	Models                    pgtype.JSONB `sql:"models"`
	Definitions               pgtype.JSONB `sql:"definitions"`
	Examples                  pgtype.JSONB `sql:"examples"`
	ServiceLevel              pgtype.JSONB `sql:"service_level"`
	Quality                   pgtype.JSONB `sql:"quality"`
	Links                     pgtype.JSONB `sql:"links"`
	Tags                      pgtype.JSONB `sql:"tags"`
}

// columns in the order of domain.Sections.
var columns = domain.Sections()

// columnList is `"id", "data_contract_specification", ...` .
var columnList = func() string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = fmt.Sprintf(`"%s"`, c)
	}
	return strings.Join(quoted, ", ")
}()

func (r *Row) blobs() map[string]*pgtype.JSONB {
	return map[string]*pgtype.JSONB{
		"info":          &r.Info,
		"servers":       &r.Servers,
		"terms":         &r.Terms,
		"models":        &r.Models,
		"definitions":   &r.Definitions,
		"examples":      &r.Examples,
		"service_level": &r.ServiceLevel,
		"quality":       &r.Quality,
		"links":         &r.Links,
		"tags":          &r.Tags,
	}
}

// values returns column values in the order of columns.
func (r *Row) values() []interface{} {
	blobs := r.blobs()
	vals := make([]interface{}, 0, len(columns))
	for _, c := range columns {
		switch c {
		case "id":
			vals = append(vals, r.Id)
		case "data_contract_specification":
			vals = append(vals, r.DataContractSpecification)
		default:
			vals = append(vals, *blobs[c])
		}
	}
	return vals
}

// jsonb converts an encoded JSON value to a column value. JSON null is SQL NULL.
func jsonb(raw []byte) pgtype.JSONB {
	if raw == nil || string(raw) == "null" {
		return pgtype.JSONB{Status: pgtype.Null}
	}
	return pgtype.JSONB{Bytes: raw, Status: pgtype.Present}
}

// ToRow converts a data contract into a row.
func ToRow(dc *domain.DataContract) (Row, error) {
	members, err := dc.Members()
	if err != nil {
		return Row{}, err
	}
	row := Row{Id: dc.Id, DataContractSpecification: dc.DataContractSpecification}
	for key, b := range row.blobs() {
		*b = jsonb(members[key])
	}
	return row, nil
}

// FromRow converts a row back into a data contract.
//
// The data contract is validated again, so a row broken at rest is an error.
func FromRow(row Row) (*domain.DataContract, error) {
	members := map[string]json.RawMessage{}

	id, err := json.Marshal(row.Id)
	if err != nil {
		return nil, err
	}
	members["id"] = id

	spec, err := json.Marshal(row.DataContractSpecification)
	if err != nil {
		return nil, err
	}
	members["data_contract_specification"] = spec

	for key, b := range row.blobs() {
		if b.Status != pgtype.Present {
			continue
		}
		members[key] = json.RawMessage(b.Bytes)
	}
	return domain.ParseDataContractMembers(members)
}

// columnValue converts a member of a patch to a column value.
func columnValue(key string, value any, null bool) (interface{}, error) {
	switch key {
	case "id", "data_contract_specification":
		s, ok := value.(string)
		if !ok || null {
			return nil, fmt.Errorf("%s should be a string", key)
		}
		return s, nil
	}
	if null {
		return pgtype.JSONB{Status: pgtype.Null}, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return jsonb(raw), nil
}
