package main

import (
	"fmt"
	"io"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/okian/velocast/internal/adapters/repository"
	service "github.com/okian/velocast/internal/app"
)

type inspectCommand struct {
	*globalFlags
	out  io.Writer
	ID   string
	List bool
}

func (c *inspectCommand) run(*kingpin.ParseContext) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	store, err := service.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if c.ID == "" && !c.List {
		a, err := store.Load(nocontext)
		if err != nil {
			return err
		}
		return printJSON(c.out, a.Info())
	}

	versioned, ok := store.(repository.Versioned)
	if !ok {
		return fmt.Errorf("store backend %q keeps only the current artifact", cfg.StoreBackend)
	}
	if c.List {
		ids, err := versioned.IDs(nocontext)
		if err != nil {
			return err
		}
		return printJSON(c.out, ids)
	}
	a, err := versioned.Get(nocontext, c.ID)
	if err != nil {
		return err
	}
	return printJSON(c.out, a.Info())
}

func registerInspect(app *kingpin.Application, g *globalFlags, out io.Writer) {
	c := &inspectCommand{globalFlags: g, out: out}

	cmd := app.Command("inspect", "prints metadata of a saved model").
		Action(c.run)

	cmd.Flag("id", "artifact id (leveldb backend)").
		StringVar(&c.ID)

	cmd.Flag("list", "list saved artifact ids (leveldb backend)").
		BoolVar(&c.List)
}
