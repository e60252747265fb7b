// Command velocastctl trains, inspects and queries demand models offline.
package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/okian/velocast/internal/config"
	"github.com/okian/velocast/pkg/logger"
)

// program version
var version = "v1.0.0"

// empty context
var nocontext = context.Background()

// globalFlags are shared by every subcommand.
type globalFlags struct {
	ConfigFile string
	Backend    string
	Artifact   string
	Data       string
	LogLevel   string
}

func main() {
	app := newApp(os.Stdout)
	kingpin.MustParse(app.Parse(os.Args[1:]))
}

func newApp(out io.Writer) *kingpin.Application {
	app := kingpin.New("velocastctl", "bike-rental demand model tool")
	app.Version(version)
	g := new(globalFlags)

	app.Flag("config", "yaml configuration file").
		Envar(config.EnvConfig).
		StringVar(&g.ConfigFile)
	app.Flag("backend", "artifact store backend (file or leveldb)").
		StringVar(&g.Backend)
	app.Flag("artifact", "artifact file or leveldb directory").
		StringVar(&g.Artifact)
	app.Flag("data", "historical hourly data file").
		StringVar(&g.Data)
	app.Flag("log-level", "log level").
		Default("warn").
		StringVar(&g.LogLevel)

	registerTrain(app, g, out)
	registerPredict(app, g, out)
	registerInspect(app, g, out)
	registerGenerate(app, out)
	registerLoadtest(app, out)
	return app
}

// load resolves configuration and applies command line overrides.
func (g *globalFlags) load() (*config.Config, error) {
	if g.ConfigFile != "" {
		if err := os.Setenv(config.EnvConfig, g.ConfigFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(nocontext)
	if err != nil {
		return nil, err
	}
	if g.Backend != "" {
		cfg.StoreBackend = g.Backend
	}
	if g.Artifact != "" {
		cfg.ArtifactPath = g.Artifact
	}
	if g.Data != "" {
		cfg.DataPath = g.Data
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(os.Stderr)); err != nil {
		return nil, err
	}
	if err := logger.SetLevelString(g.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
