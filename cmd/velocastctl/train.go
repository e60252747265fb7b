package main

import (
	"io"

	"gopkg.in/alecthomas/kingpin.v2"

	service "github.com/okian/velocast/internal/app"
	"github.com/okian/velocast/pkg/logger"
)

type trainCommand struct {
	*globalFlags
	out    io.Writer
	Cutoff string
	Trees  int
}

func (c *trainCommand) run(*kingpin.ParseContext) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	if c.Cutoff != "" {
		cfg.CutoffDate = c.Cutoff
	}
	if c.Trees > 0 {
		cfg.ForestTrees = c.Trees
	}

	store, err := service.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	trainer, err := service.NewTrainerFromConfig(cfg, store, logger.Named("train"))
	if err != nil {
		return err
	}
	report, err := trainer.Train(nocontext)
	if err != nil {
		return err
	}
	return printJSON(c.out, report)
}

func registerTrain(app *kingpin.Application, g *globalFlags, out io.Writer) {
	c := &trainCommand{globalFlags: g, out: out}

	cmd := app.Command("train", "fits a model on history before the cutoff and saves it").
		Action(c.run)

	cmd.Flag("cutoff", "first excluded date (YYYY-MM-DD)").
		StringVar(&c.Cutoff)

	cmd.Flag("trees", "number of trees").
		IntVar(&c.Trees)
}
