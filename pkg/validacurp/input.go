package validacurp

import "strings"

// CalculationInput is the personal data a CURP is calculated from.
// Dates are passed through as the API expects them: two-digit day and month,
// four-digit year. Gender is "H" or "M"; Entity is the numeric state code.
type CalculationInput struct {
	Names          string `json:"names" yaml:"names"`
	LastName       string `json:"lastName" yaml:"lastName"`
	SecondLastName string `json:"secondLastName" yaml:"secondLastName"`
	BirthDay       string `json:"birthDay" yaml:"birthDay"`
	BirthMonth     string `json:"birthMonth" yaml:"birthMonth"`
	BirthYear      string `json:"birthYear" yaml:"birthYear"`
	Gender         string `json:"gender" yaml:"gender"`
	Entity         string `json:"entity" yaml:"entity"`
}

// inputField binds an input value to its name in each API version.
// label is the name reported when the value is missing.
type inputField struct {
	label  string
	legacy string
	key    string
	value  string
}

// fields lists the input in the fixed validation order.
func (in CalculationInput) fields() []inputField {
	return []inputField{
		{label: "names", legacy: "nombres", key: "names", value: in.Names},
		{label: "lastName", legacy: "apellido_paterno", key: "lastName", value: in.LastName},
		{label: "secondLastName", legacy: "apellido_materno", key: "secondLastName", value: in.SecondLastName},
		{label: "birthDay", legacy: "dia_nacimiento", key: "birthday", value: in.BirthDay},
		{label: "birthMonth", legacy: "mes_nacimiento", key: "birthMonth", value: in.BirthMonth},
		{label: "birthYear", legacy: "anio_nacimiento", key: "yearBirth", value: in.BirthYear},
		{label: "gender", legacy: "sexo", key: "gender", value: in.Gender},
		{label: "entity", legacy: "entidad", key: "entity", value: in.Entity},
	}
}

// Validate returns a *ValidationError for the first empty field.
func (in CalculationInput) Validate() error {
	for _, f := range in.fields() {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.label}
		}
	}
	return nil
}

// legacyParams renders the input with the version 1 key names.
func (in CalculationInput) legacyParams() []param {
	fields := in.fields()
	out := make([]param, 0, len(fields))
	for _, f := range fields {
		out = append(out, param{key: f.legacy, value: f.value})
	}
	return out
}

// params renders the input with the version 2 key names.
func (in CalculationInput) params() []param {
	fields := in.fields()
	out := make([]param, 0, len(fields))
	for _, f := range fields {
		out = append(out, param{key: f.key, value: f.value})
	}
	return out
}
