// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"gitlab.com/jaxnet/reservecore/config"
	"gitlab.com/jaxnet/reservecore/reserve"
	"gitlab.com/jaxnet/reservecore/types/currencyid"
)

func main() {
	app := &App{}
	cliApp := &cli.App{
		Name:   "reserve-cli",
		Usage:  "drive the reserve currency engine against a scenario file",
		Flags:  app.InitFlags(),
		Before: app.InitCfg,
		Commands: []*cli.Command{
			{
				Name:   "convert",
				Usage:  "run one ConvertAmounts scenario by name from a scenarios CSV",
				Flags:  app.ConvertFlags(),
				Action: app.ConvertCmd,
			},
			{
				Name:   "list-scenarios",
				Usage:  "print every scenario in a scenarios CSV",
				Flags:  app.ConvertFlags(),
				Action: app.ListScenariosCmd,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

// App carries the CLI's loaded config across commands, the same shape
// tx-gatling's App type uses (InitCfg fills it in Before, commands read
// it in their Action).
type App struct {
	config config.Config
}

func (app *App) InitFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "",
			Usage:   "path to configuration file",
		},
	}
}

func (app *App) InitCfg(c *cli.Context) error {
	var args []string
	if path := c.String("config"); path != "" {
		args = []string{"-C", path}
	}

	cfg, _, err := config.Load(args)
	if err != nil {
		return cli.NewExitError(errors.Wrap(err, "unable to load config"), 1)
	}
	app.config = cfg
	return nil
}

func (app *App) ConvertFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "scenarios",
			Aliases: []string{"f"},
			Value:   "reserve/testdata/scenarios.csv",
			Usage:   "path to a scenarios CSV",
		},
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "scenario name to run (convert command only)",
		},
	}
}

func (app *App) ListScenariosCmd(c *cli.Context) error {
	scenarios, err := reserve.LoadScenarios(c.String("scenarios"))
	if err != nil {
		return cli.NewExitError(errors.Wrap(err, "unable to load scenarios"), 1)
	}
	for _, sc := range scenarios {
		fmt.Printf("%-20s %s\n", sc.Name, sc.Description)
	}
	return nil
}

func (app *App) ConvertCmd(c *cli.Context) error {
	name := c.String("name")
	if name == "" {
		return cli.NewExitError("missing required -name flag", 1)
	}

	scenarios, err := reserve.LoadScenarios(c.String("scenarios"))
	if err != nil {
		return cli.NewExitError(errors.Wrap(err, "unable to load scenarios"), 1)
	}

	for _, sc := range scenarios {
		if sc.Name != name {
			continue
		}

		state := reserve.CurrencyState{
			Reserves: sc.Reserves,
			Supply:   reserve.Amount(sc.Supply),
			Flags:    reserve.FlagFractional | reserve.FlagLaunchConfirmed,
		}
		for i := range sc.Weights {
			state.Weights = append(state.Weights, int64(sc.Weights[i]))
			state.Currencies = append(state.Currencies, currencyid.FromName(fmt.Sprintf("%s-%d", name, i)))
		}

		result, err := reserve.ConvertAmounts(state, sc.InputReserves, sc.InputFractional, nil, app.config.Params())
		if err != nil {
			fmt.Printf("scenario %q failed: %v\n", name, err)
			return nil
		}

		fmt.Printf("scenario %q rates=%v newSupply=%d newReserves=%v\n",
			name, result.Rates, result.NewState.Supply, result.NewState.Reserves)
		return nil
	}

	return cli.NewExitError(fmt.Sprintf("no scenario named %q", name), 1)
}
