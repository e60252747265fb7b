package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/okian/velocast/internal/domain/model"
	"github.com/okian/velocast/internal/loadtest"
	"github.com/okian/velocast/pkg/logger"
)

type loadtestCommand struct {
	out         io.Writer
	URL         string
	Requests    int
	Workers     int
	Timeout     time.Duration
	Start       string
	Seed        int64
	VerifyShare float64
	Verbose     bool
}

func (c *loadtestCommand) run(*kingpin.ParseContext) error {
	start, err := time.Parse(model.DateLayout, c.Start)
	if err != nil {
		return fmt.Errorf("start %q: want YYYY-MM-DD", c.Start)
	}
	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		return err
	}

	stats, err := loadtest.Run(nocontext, &loadtest.Config{
		BaseURL:     c.URL,
		Requests:    c.Requests,
		Workers:     c.Workers,
		Timeout:     c.Timeout,
		Start:       start,
		Seed:        c.Seed,
		VerifyShare: c.VerifyShare,
		Verbose:     c.Verbose,
	})
	if err != nil {
		return err
	}
	if err := printJSON(c.out, stats); err != nil {
		return err
	}
	if stats.Inconsistent > 0 {
		return fmt.Errorf("%d of %d replayed predictions changed", stats.Inconsistent, stats.Replayed)
	}
	return nil
}

func registerLoadtest(app *kingpin.Application, out io.Writer) {
	c := &loadtestCommand{out: out}

	cmd := app.Command("loadtest", "sends concurrent predictions to a running service").
		Action(c.run)

	cmd.Flag("url", "base URL of the service").
		Default("http://localhost:9080").
		StringVar(&c.URL)

	cmd.Flag("requests", "number of predictions to send").
		Default(fmt.Sprint(loadtest.DefaultRequests)).
		IntVar(&c.Requests)

	cmd.Flag("workers", "number of concurrent workers").
		Default(fmt.Sprint(runtime.NumCPU() * 2)).
		IntVar(&c.Workers)

	cmd.Flag("timeout", "HTTP request timeout").
		Default(loadtest.DefaultTimeout.String()).
		DurationVar(&c.Timeout)

	cmd.Flag("start", "first date of generated observations (YYYY-MM-DD)").
		Default("2012-10-01").
		StringVar(&c.Start)

	cmd.Flag("seed", "random seed for generated observations").
		Default("42").
		Int64Var(&c.Seed)

	cmd.Flag("verify-share", "share of answered requests replayed to check determinism").
		Default(fmt.Sprint(loadtest.DefaultVerifyShare)).
		Float64Var(&c.VerifyShare)

	cmd.Flag("verbose", "log every failed request").
		BoolVar(&c.Verbose)
}
