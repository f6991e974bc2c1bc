package cmd

import (
	"os"

	"github.com/oarkflow/cli"
	"github.com/oarkflow/cli/console"
	"github.com/oarkflow/cli/contracts"

	hairtrigger "github.com/hotgazpacho/hair-trigger"
)

func Run(planner hairtrigger.Planner) {
	cli.SetName("HairTrigger")
	cli.SetVersion("v0.0.1")
	app := cli.New()
	client := app.Instance.Client()
	client.Register([]contracts.Command{
		console.NewListCommand(client),
		&hairtrigger.MakeTriggerCommand{
			Planner: planner,
		},
		&hairtrigger.ApplyCommand{
			Planner: planner,
		},
		&hairtrigger.GenerateCommand{
			Planner: planner,
		},
		&hairtrigger.DropCommand{
			Planner: planner,
		},
		&hairtrigger.ListCommand{
			Planner: planner,
		},
		&hairtrigger.ValidateCommand{
			Planner: planner,
		},
	})
	client.Run(os.Args, true)
}
