package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/simaogato/walletpnl/internal/adapter/repository/database"
	"github.com/simaogato/walletpnl/internal/app"
	"github.com/simaogato/walletpnl/internal/config"
)

var migrationDir string

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	a := cli.NewApp()
	a.Name = "walletpnl"
	a.Usage = "estimate the profit and loss of an EVM wallet over the last week"
	a.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "migrations",
			Value:       database.DefaultMigrationDir,
			Usage:       "directory holding one goose migration directory per database driver",
			Destination: &migrationDir,
		},
	}
	a.Commands = []*cli.Command{
		pnlCommand,
		ingestCommand,
		migrateCommand,
	}
	return a
}

var pnlCommand = &cli.Command{
	Name:      "pnl",
	Usage:     "print the hourly PnL series of a wallet",
	ArgsUsage: "<wallet address>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "print the series as JSON instead of a table",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return errors.New("usage: walletpnl pnl <wallet address>")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, err := app.OpenDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		result, err := app.NewPnLService(cfg, db).CalculatePnL(c.Context, c.Args().First())
		if err != nil {
			return err
		}

		if c.Bool("json") {
			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", " ")
			return enc.Encode(map[string]interface{}{
				"wallet_address": result.WalletAddress,
				"pnl":            result.Points,
				"missing_prices": result.MissingPrices,
			})
		}
		return printPnL(c.App.Writer, result)
	},
}

var ingestCommand = &cli.Command{
	Name:  "ingest",
	Usage: "download the latest market data of the top coins into the price store",
	Action: func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, err := app.OpenDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		report, err := app.NewIngestionService(cfg, db).Run(c.Context)
		if err != nil {
			return err
		}

		fmt.Fprintf(c.App.Writer, "run %s: %d coins, %d samples stored\n", report.RunID, report.Coins, report.Samples)
		if len(report.Failed) > 0 {
			return fmt.Errorf("ingestion failed for: %s", strings.Join(report.Failed, ", "))
		}
		return nil
	},
}

var migrateCommand = &cli.Command{
	Name:      "migrate",
	Usage:     "run a goose migration command against the configured database",
	ArgsUsage: "[up|down|redo|status|version|reset] [args]",
	Action: func(c *cli.Context) error {
		if c.NArg() > 2 {
			return errors.New("too many arguments")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, err := app.OpenDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		return database.Migrate(db, migrationDir, c.Args().Get(0), c.Args().Get(1))
	},
}
