package domain

import (
	"bytes"
	"encoding/json"
	"errors"
)

// QualityType discriminates kinds of quality specifications.
type QualityType string

const (
	QualitySodaCL            QualityType = "SodaCL"
	QualityMonteCarlo        QualityType = "montecarlo"
	QualityGreatExpectations QualityType = "great-expectations"
	QualityCustom            QualityType = "custom"
)

var qualityTypes = []QualityType{
	QualitySodaCL, QualityMonteCarlo, QualityGreatExpectations, QualityCustom,
}

// QualitySpecification is one of SodaCL, MonteCarlo, GreatExpectations or CustomQuality.
type QualitySpecification interface {
	QualityType() QualityType
}

// checks in Soda Checks Language, as YAML text.
type SodaCL string

// monitors of Monte Carlo as code, as YAML text.
type MonteCarlo string

// expectations of Great Expectations.
type GreatExpectations map[string]any

// free-form quality checks.
type CustomQuality string

func (SodaCL) QualityType() QualityType            { return QualitySodaCL }
func (MonteCarlo) QualityType() QualityType        { return QualityMonteCarlo }
func (GreatExpectations) QualityType() QualityType { return QualityGreatExpectations }
func (CustomQuality) QualityType() QualityType     { return QualityCustom }

// Quality is encoded as {"type": ..., "specification": ...}.
type Quality struct {
	Specification QualitySpecification `json:"specification" validate:"required"`
}

type qualityWire struct {
	Type          QualityType          `json:"type"`
	Specification QualitySpecification `json:"specification"`
}

func (q Quality) Type() QualityType {
	if q.Specification == nil {
		return ""
	}
	return q.Specification.QualityType()
}

func (q Quality) MarshalJSON() ([]byte, error) {
	if q.Specification == nil {
		return nil, errors.New("quality without specification")
	}
	return json.Marshal(qualityWire{Type: q.Type(), Specification: q.Specification})
}

// UnmarshalJSON fails with *ValidationError, whose locations are relative to the quality object.
func (q *Quality) UnmarshalJSON(b []byte) error {
	var w struct {
		Type          *string         `json:"type"`
		Specification json.RawMessage `json:"specification"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	verr := &ValidationError{}
	if w.Type == nil {
		verr.Add(FieldError{Loc: []string{"type"}, Msg: msgRequired, Type: "missing"})
	}
	spec := bytes.TrimSpace(w.Specification)
	if len(spec) == 0 || bytes.Equal(spec, []byte("null")) {
		verr.Add(FieldError{Loc: []string{"specification"}, Msg: msgRequired, Type: "missing"})
	}
	if w.Type == nil || verr.Len() != 0 {
		return verr
	}

	var parsed QualitySpecification
	switch typ := QualityType(*w.Type); typ {
	case QualitySodaCL, QualityMonteCarlo, QualityCustom:
		var s string
		if err := json.Unmarshal(spec, &s); err != nil {
			verr.Add(FieldError{Loc: []string{"specification"}, Msg: "Input should be a valid string", Type: "string_type"})
			return verr
		}
		switch typ {
		case QualitySodaCL:
			parsed = SodaCL(s)
		case QualityMonteCarlo:
			parsed = MonteCarlo(s)
		default:
			parsed = CustomQuality(s)
		}
	case QualityGreatExpectations:
		var m map[string]any
		if err := json.Unmarshal(spec, &m); err != nil {
			verr.Add(FieldError{Loc: []string{"specification"}, Msg: "Input should be a valid dictionary", Type: "dict_type"})
			return verr
		}
		parsed = GreatExpectations(m)
	default:
		verr.Add(FieldError{
			Loc:  []string{"type"},
			Msg:  "Input should be " + quoted(qualityTypes),
			Type: "literal_error",
		})
		return verr
	}

	q.Specification = parsed
	return nil
}
