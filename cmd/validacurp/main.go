package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/multiservicios-web/valida-curp-go/internal/app"
	"github.com/multiservicios-web/valida-curp-go/internal/config"
	"github.com/multiservicios-web/valida-curp-go/internal/logger"
	"github.com/multiservicios-web/valida-curp-go/pkg/validacurp"
	"github.com/spf13/pflag"
)

const usage = `usage: validacurp [flags] <command> [args]

commands:
  validate <curp>   check the structure of a CURP
  data <curp>       fetch the registry data of a CURP
  calculate         calculate a CURP from --names, --last-name, ...
  entities          list the federal entity catalog
  batch <file>      run a YAML/JSON batch file and publish the results
  demo              run every operation with sample data

flags:
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "validacurp: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("validacurp", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.RegisterFlags(fs)
	in := registerInputFlags(fs)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return errUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	log.DebugObj("validacurp starting", "config", cfg.Redacted())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := app.NewRunner(cfg, log, stdout)
	if err != nil {
		log.ErrorObj("failed to initialize runner", "error", err)
		return err
	}
	defer runner.Close()

	cmd, rest := strings.ToLower(fs.Arg(0)), fs.Args()[1:]
	switch cmd {
	case "validate", "data":
		if len(rest) != 1 {
			fs.Usage()
			return errUsage
		}
		if cmd == "validate" {
			return runner.Validate(ctx, rest[0])
		}
		return runner.Data(ctx, rest[0])
	case "calculate":
		return runner.Calculate(ctx, *in)
	case "entities":
		return runner.Entities(ctx)
	case "batch":
		if len(rest) != 1 {
			fs.Usage()
			return errUsage
		}
		summary, err := runner.Batch(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "batch: %d total, %d succeeded, %d failed, %d published\n",
			summary.Total, summary.Succeeded, summary.Failed, summary.Published)
		return nil
	case "demo":
		return runner.Demo(ctx)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return errUsage
	}
}

// registerInputFlags declares the calculate command flags.
func registerInputFlags(fs *pflag.FlagSet) *validacurp.CalculationInput {
	in := &validacurp.CalculationInput{}
	fs.StringVar(&in.Names, "names", "", "calculate: given names")
	fs.StringVar(&in.LastName, "last-name", "", "calculate: first last name")
	fs.StringVar(&in.SecondLastName, "second-last-name", "", "calculate: second last name")
	fs.StringVar(&in.BirthDay, "birth-day", "", "calculate: two-digit birth day")
	fs.StringVar(&in.BirthMonth, "birth-month", "", "calculate: two-digit birth month")
	fs.StringVar(&in.BirthYear, "birth-year", "", "calculate: four-digit birth year")
	fs.StringVar(&in.Gender, "gender", "", "calculate: H or M")
	fs.StringVar(&in.Entity, "entity", "", "calculate: numeric federal entity code")
	return in
}
