package main

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	service "github.com/okian/velocast/internal/app"
	"github.com/okian/velocast/internal/domain/model"
)

type predictCommand struct {
	*globalFlags
	out          io.Writer
	Date         string
	Hour         int
	Weather      string
	Temp         float64
	ATemp        float64
	Humidity     float64
	Windspeed    float64
	ClipNegative bool
}

func (c *predictCommand) run(*kingpin.ParseContext) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	date, err := time.Parse(model.DateLayout, c.Date)
	if err != nil {
		return fmt.Errorf("%w: %s: want YYYY-MM-DD, got %q", model.ErrMalformedInput, model.FieldDate, c.Date)
	}

	store, err := service.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := service.LoadPredictor(nocontext, store,
		service.WithClipNegative(c.ClipNegative || cfg.ClipNegative))
	if err != nil {
		return err
	}
	n, err := p.Predict(nocontext, model.Observation{
		Date:      date,
		Hour:      c.Hour,
		Weather:   c.Weather,
		Temp:      c.Temp,
		ATemp:     c.ATemp,
		Humidity:  c.Humidity,
		Windspeed: c.Windspeed,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, n)
	return err
}

func registerPredict(app *kingpin.Application, g *globalFlags, out io.Writer) {
	c := &predictCommand{globalFlags: g, out: out}

	cmd := app.Command("predict", "estimates the rental count for one hour").
		Action(c.run)

	cmd.Flag("date", "calendar date (YYYY-MM-DD)").
		Default("2012-11-10").
		StringVar(&c.Date)

	cmd.Flag("hr", "hour of day 0-23").
		Default("10").
		IntVar(&c.Hour)

	cmd.Flag("weather", "weather category").
		Default("Clear").
		StringVar(&c.Weather)

	cmd.Flag("temp", "normalized temperature").
		Default("0.3").
		Float64Var(&c.Temp)

	cmd.Flag("atemp", "normalized feels-like temperature").
		Default("0.31").
		Float64Var(&c.ATemp)

	cmd.Flag("hum", "normalized humidity").
		Default("0.8").
		Float64Var(&c.Humidity)

	cmd.Flag("windspeed", "normalized wind speed").
		Default("0.0").
		Float64Var(&c.Windspeed)

	cmd.Flag("clip-negative", "floor estimates at zero").
		BoolVar(&c.ClipNegative)
}
