package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/etnz/budget"
	"github.com/etnz/budget/config"
	"github.com/etnz/budget/store"
	"github.com/google/subcommands"
)

type configCmd struct {
	init bool
}

func (*configCmd) Name() string     { return "config" }
func (*configCmd) Synopsis() string { return "show the effective configuration" }
func (*configCmd) Usage() string {
	return `bgt config [-init]

  Prints the configuration in use, after environment overrides. With -init,
  writes the default configuration file if it does not exist.
`
}

func (c *configCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.init, "init", false, "Write the default configuration file")
}

func (c *configCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := *configPath
	if path == "" {
		path = config.Path()
	}
	if c.init {
		if _, err := os.Stat(path); err == nil {
			return fail(fmt.Errorf("%s already exists", path))
		} else if !errors.Is(err, os.ErrNotExist) {
			return fail(err)
		}
		if err := config.Save(path, config.DefaultConfig()); err != nil {
			return fail(err)
		}
		fmt.Fprintf(stdout, "Configuration written to %s\n", path)
		return subcommands.ExitSuccess
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "# %s\n", path)
	if err := config.Encode(stdout, cfg); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "# state: %s\n", cfg.StatePath())
	if err := cfg.Validate(); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "# saved: %s\n", lastSaved(ctx, cfg))
	return subcommands.ExitSuccess
}

// lastSaved describes when the ledger was last written to the storage of cfg.
func lastSaved(ctx context.Context, cfg config.Config) string {
	s, closer, err := store.Open(cfg.Storage.Backend, cfg.StatePath())
	if err != nil {
		log.Printf("cannot open storage: %v", err)
		return "unknown"
	}
	defer closer.Close()
	ts, ok := s.(store.Timestamped)
	if !ok {
		return "unknown"
	}
	at, err := ts.UpdatedAt(ctx, budget.StateKey)
	if errors.Is(err, fs.ErrNotExist) {
		return "never"
	}
	if err != nil {
		log.Printf("cannot read the last write time: %v", err)
		return "unknown"
	}
	return at.Local().Format("2006-01-02 15:04:05")
}
