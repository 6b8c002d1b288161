package domain

// domain package contains the Domain Models of the catalog.
//
// `domain/mycelium` package exposes the root object of the catalog.
// Entrypoints should instantiate it with `mycelium.Default` and interact with the domain through it.
//
// `domain/ENTITY.go` has high-level entities (Domain Model types) and functions.
// For example, `domain/datacontract.go` contains the `DataContract` entity,
// and `domain/template.go` contains the `Template` entity.
//
// `domain/ENTITY` directory contains the "physical" representation of the entity.
// For example, `domain/datacontract/db/postgres` stores data contracts in PostgreSQL,
// and `domain/template/store` keeps templates read from YAML files.
//
// `domain/ENTITY/interface.go` exposes the client interface to handle the entity.
//
// # Entities
//
// - DataContract: a document describing a dataset, its servers, models, quality and terms.
//
// - DataContractPatch: a partial DataContract, to update members selectively.
//
// - Template: a form definition to help writing a DataContract for a kind of platform.
//
// # Errors
//
// Failures of operations are reported with sentinels in `domain/errors`,
// and validation failures are reported as ValidationError listing each FieldError.
