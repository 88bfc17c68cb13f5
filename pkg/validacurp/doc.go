// Package validacurp is a client for the valida-curp.com.mx API.
//
// It validates the structure of a CURP, looks up its registry data, calculates
// a CURP from personal data and lists the federal entities. Version 2 of the
// API is used by default; version 1 is deprecated but still reachable through
// SetVersion.
//
//	client := validacurp.New("YOUR-TOKEN")
//	raw, err := client.IsValid(ctx, "PXNE660720HMCXTN06")
//	res, err := validacurp.Decode[validacurp.StructureResult](raw, err)
package validacurp
