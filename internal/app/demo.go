package app

import (
	"context"
	"fmt"

	"github.com/multiservicios-web/valida-curp-go/pkg/validacurp"
)

// DemoCURP and DemoInput are the sample data of the usage walk-through.
const DemoCURP = "PXNE660720HMCXTN06"

var DemoInput = validacurp.CalculationInput{
	Names:          "Enrique",
	LastName:       "Peña",
	SecondLastName: "Nieto",
	BirthDay:       "20",
	BirthMonth:     "07",
	BirthYear:      "1966",
	Gender:         "H",
	Entity:         "15",
}

// Demo runs every operation once with the sample data, stopping at the first error.
func (r *Runner) Demo(ctx context.Context) error {
	steps := []struct {
		title string
		run   func() error
	}{
		{title: "validate curp structure", run: func() error { return r.Validate(ctx, DemoCURP) }},
		{title: "get data", run: func() error { return r.Data(ctx, DemoCURP) }},
		{title: "calculate curp", run: func() error { return r.Calculate(ctx, DemoInput) }},
		{title: "get entities", run: func() error { return r.Entities(ctx) }},
	}
	for _, s := range steps {
		if _, err := fmt.Fprintf(r.out, "# %s\n", s.title); err != nil {
			return err
		}
		if err := s.run(); err != nil {
			return fmt.Errorf("%s: %w", s.title, err)
		}
	}
	return nil
}
