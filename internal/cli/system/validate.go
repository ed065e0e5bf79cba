package system

import (
	"encoding/json"
	"errors"

	"github.com/julianstephens/bium/internal/cli"
	"github.com/julianstephens/bium/internal/planner"
	"github.com/julianstephens/bium/internal/validation"
)

var ErrConflicts = errors.New("conflicts detected")

type ValidateCmd struct {
	JSON   bool `help:"Print the conflicts as JSON."`
	Strict bool `help:"Exit with an error when conflicts are found."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	store, _ := planner.New(svc.Snapshot())
	result := validation.New().Validate(store)

	if c.JSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		ctx.Println(string(data))
	} else {
		ctx.Println(result.FormatReport())
	}

	if c.Strict && result.HasConflicts() {
		return ErrConflicts
	}
	return nil
}
