package actions

import (
	"context"
	"fmt"

	"github.com/upkeepcli/upkeep/internal/brew"
	"github.com/upkeepcli/upkeep/internal/report"
	"github.com/upkeepcli/upkeep/internal/script"
)

// Dispatcher executes ops against the real collaborators. Script-backed ops
// report their own failures through the runner; Homebrew failures are
// reported here so every failed op lands in the error log.
type Dispatcher struct {
	Scripts  *script.Runner
	Brew     *brew.Client
	Reporter *report.Log
}

// NewDispatcher wires a dispatcher to the given collaborators. reporter may
// be nil, in which case Homebrew failures are only returned.
func NewDispatcher(scripts *script.Runner, brewClient *brew.Client, reporter *report.Log) *Dispatcher {
	return &Dispatcher{Scripts: scripts, Brew: brewClient, Reporter: reporter}
}

// Execute runs op through the collaborator its kind selects.
func (d *Dispatcher) Execute(ctx context.Context, op Op) error {
	switch op.Kind {
	case KindInstallFlatpak:
		return d.Scripts.Run(ctx, "flatpak", []string{op.Target}, script.Options{})
	case KindInstallFormula:
		command := []string{"brew", "install"}
		if op.Cask {
			command = append(command, "--cask")
		}
		command = append(command, op.Target)
		if err := d.Brew.Install(ctx, op.Target, op.Cask); err != nil {
			d.reportFailure("brew", command, err)
			return err
		}
		return nil
	case KindInstallBundle:
		if err := d.Brew.BundleInstall(ctx, op.Target); err != nil {
			d.reportFailure("brew", []string{"brew", "bundle", "install", "--file", op.Target}, err)
			return err
		}
		return nil
	}
	return fmt.Errorf("unknown action kind %q", op.Kind)
}

func (d *Dispatcher) reportFailure(script string, command []string, err error) {
	if d.Reporter == nil {
		return
	}
	d.Reporter.Report(script, command, err.Error())
}
