// Command colstore is an operator tool for inspecting and editing a shared
// collections store from the command line. It speaks to the same backing
// file the rule engine uses, through the same in-process API.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Giulio2002/colstore"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "colstore:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "colstore",
		Usage:   "inspect and edit a shared collections store",
		Version: colstore.Version(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config `FILE` for the store",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "backing file `PATH` (overrides config)",
			},
			&cli.StringFlag{
				Name:  "collection",
				Value: "default",
				Usage: "collection `NAME` attached to resolved records",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log engine-level diagnostics to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "stat",
				Usage:  "Print store statistics",
				Action: cmdStat,
			},
			{
				Name:      "get",
				Usage:     "Print the first value stored under a key",
				ArgsUsage: "KEY",
				Action:    cmdGet,
			},
			{
				Name:      "set",
				Usage:     "Replace the first value under a key (store when absent)",
				ArgsUsage: "KEY VALUE",
				Action:    cmdSet,
			},
			{
				Name:      "add",
				Usage:     "Append a duplicate value under a key",
				ArgsUsage: "KEY VALUE",
				Action:    cmdAdd,
			},
			{
				Name:      "del",
				Usage:     "Delete the first value under a key",
				ArgsUsage: "KEY",
				Action:    cmdDel,
			},
			{
				Name:      "dump",
				Usage:     "Print all records, optionally restricted to a key prefix",
				ArgsUsage: "[PREFIX]",
				Action:    cmdDump,
			},
			{
				Name:      "grep",
				Usage:     "Print records whose key matches a regular expression",
				ArgsUsage: "PATTERN",
				Action:    cmdGrep,
			},
		},
	}
}

// openCollection builds the store context from flags and fails fast when the
// backing file cannot be opened.
func openCollection(c *cli.Context) (*colstore.StorageContext, *colstore.Collection, error) {
	cfg := colstore.DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = colstore.LoadConfig(path)
		if err != nil {
			return nil, nil, err
		}
	}
	if db := c.String("db"); db != "" {
		cfg.Path = db
	}

	if c.Bool("verbose") {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		colstore.SetLogger(func(msg string, args ...any) {
			logger.Debug(msg, args...)
		}, colstore.LogLvlDebug)
	}

	ctx := colstore.NewContext(cfg)
	if !ctx.Valid() {
		ctx.Close()
		return nil, nil, fmt.Errorf("cannot open store at %s", cfg.Path)
	}
	return ctx, colstore.NewCollection(ctx, c.String("collection")), nil
}

func cmdStat(c *cli.Context) error {
	ctx, col, err := openCollection(c)
	if err != nil {
		return err
	}
	defer ctx.Close()

	var out []colstore.ResolvedVariable
	col.ResolveMultiMatches("", &out, nil)

	keys := make(map[string]struct{}, len(out))
	for _, rv := range out {
		keys[rv.Key] = struct{}{}
	}

	fmt.Printf("path:    %s\n", ctx.Path())
	fmt.Printf("records: %d\n", len(out))
	fmt.Printf("keys:    %d\n", len(keys))
	return nil
}

func cmdGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: get KEY", 2)
	}
	ctx, col, err := openCollection(c)
	if err != nil {
		return err
	}
	defer ctx.Close()

	v, ok := col.ResolveFirst(c.Args().Get(0))
	if !ok {
		return cli.Exit("not found", 1)
	}
	fmt.Println(v)
	return nil
}

func cmdSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: set KEY VALUE", 2)
	}
	ctx, col, err := openCollection(c)
	if err != nil {
		return err
	}
	defer ctx.Close()

	col.StoreOrUpdateFirst(c.Args().Get(0), c.Args().Get(1))
	return nil
}

func cmdAdd(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: add KEY VALUE", 2)
	}
	ctx, col, err := openCollection(c)
	if err != nil {
		return err
	}
	defer ctx.Close()

	col.Store(c.Args().Get(0), c.Args().Get(1))
	return nil
}

func cmdDel(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: del KEY", 2)
	}
	ctx, col, err := openCollection(c)
	if err != nil {
		return err
	}
	defer ctx.Close()

	col.Del(c.Args().Get(0))
	return nil
}

func cmdDump(c *cli.Context) error {
	ctx, col, err := openCollection(c)
	if err != nil {
		return err
	}
	defer ctx.Close()

	var out []colstore.ResolvedVariable
	col.ResolveMultiMatches(c.Args().Get(0), &out, nil)
	printRecords(out)
	return nil
}

func cmdGrep(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: grep PATTERN", 2)
	}
	ctx, col, err := openCollection(c)
	if err != nil {
		return err
	}
	defer ctx.Close()

	var out []colstore.ResolvedVariable
	col.ResolveRegularExpression(c.Args().Get(0), &out, nil)
	printRecords(out)
	return nil
}

func printRecords(records []colstore.ResolvedVariable) {
	// Resolvers return reverse scan order; print in scan order.
	for i := len(records) - 1; i >= 0; i-- {
		fmt.Printf("%s=%s\n", records[i].Key, records[i].Value)
	}
}
