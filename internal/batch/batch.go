package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/multiservicios-web/valida-curp-go/pkg/validacurp"
	"gopkg.in/yaml.v3"
)

// Package batch loads files of lookups run by the batch command.

// Supported operations.
const (
	OpValidate  = "validate"
	OpData      = "data"
	OpCalculate = "calculate"
	OpEntities  = "entities"
)

// Request is a single lookup in a batch file.
type Request struct {
	Operation string                       `json:"operation" yaml:"operation"`
	CURP      string                       `json:"curp" yaml:"curp"`
	Input     *validacurp.CalculationInput `json:"input" yaml:"input"`
}

type file struct {
	Requests []Request `json:"requests" yaml:"requests"`
}

// Load reads a batch file. The format follows the extension: .yaml, .yml or .json.
func Load(path string) ([]Request, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("batch file path is empty")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	return Parse(raw, filepath.Ext(path))
}

// Parse decodes and validates batch content. An empty ext tries YAML then JSON.
func Parse(data []byte, ext string) ([]Request, error) {
	parsed, err := decode(data, ext)
	if err != nil {
		return nil, err
	}
	if len(parsed.Requests) == 0 {
		return nil, errors.New("batch file contains no requests")
	}

	out := make([]Request, len(parsed.Requests))
	for i, r := range parsed.Requests {
		r = sanitize(r)
		if err := validate(r); err != nil {
			return nil, fmt.Errorf("requests[%d]: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}

func decode(data []byte, ext string) (file, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var f file
		if err := d.fn(data, &f); err != nil {
			errs = append(errs, fmt.Errorf("decode %s batch: %w", d.name, err))
			continue
		}
		return f, nil
	}
	if len(errs) == 0 {
		return file{}, fmt.Errorf("batch file format %q not recognized (expected YAML or JSON)", ext)
	}
	return file{}, errors.Join(errs...)
}

func sanitize(r Request) Request {
	r.Operation = strings.ToLower(strings.TrimSpace(r.Operation))
	r.CURP = strings.ToUpper(strings.TrimSpace(r.CURP))
	if r.Input != nil {
		in := *r.Input
		for _, f := range []*string{&in.Names, &in.LastName, &in.SecondLastName, &in.BirthDay, &in.BirthMonth, &in.BirthYear, &in.Gender, &in.Entity} {
			*f = strings.TrimSpace(*f)
		}
		r.Input = &in
	}
	return r
}

func validate(r Request) error {
	switch r.Operation {
	case OpValidate, OpData:
		if r.CURP == "" {
			return fmt.Errorf("curp is required for %s", r.Operation)
		}
	case OpCalculate:
		if r.Input == nil {
			return errors.New("input is required for calculate")
		}
	case OpEntities:
	case "":
		return errors.New("operation is required")
	default:
		return fmt.Errorf("unsupported operation %q", r.Operation)
	}
	return nil
}
