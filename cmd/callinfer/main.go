package main

import (
	"fmt"
	"os"

	"github.com/ComedicChimera/olive"

	"github.com/funvibe/callinfer/internal/config"
	"github.com/funvibe/callinfer/internal/logging"
)

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	if os.Getenv("CALLINFER_TEST_MODE") == "1" {
		config.IsTestMode = true
	}

	os.Exit(execute(os.Args))
}

// execute runs the command line and returns the process exit code.
func execute(args []string) int {
	cli := olive.NewCLI("callinfer", "callinfer completes the constraint systems of scenario files", true)
	cli.AddSelectorArg("loglevel", "ll", "the log level", false, []string{"silent", "error", "warning", "verbose"})
	cli.AddSelectorArg("color", "c", "styled output", false, []string{"auto", "always", "never"})

	runCmd := cli.AddSubcommand("run", "complete scenario files", true)
	runCmd.AddPrimaryArg("scenario-path", "a scenario file or a directory of scenarios", true)
	runCmd.AddSelectorArg("mode", "m", "the completion mode of scenarios that do not set one", false, []string{"full", "partial"})
	runCmd.AddStringArg("trace", "t", "a sqlite database receiving completion events", false)
	runCmd.AddFlag("watch", "w", "re-run scenarios when they change")

	runsCmd := cli.AddSubcommand("runs", "list the runs of a trace database", true)
	runsCmd.AddPrimaryArg("trace-path", "the trace database", true)
	runsCmd.AddFlag("events", "e", "print the events of every run")

	result, err := olive.ParseArgs(cli, args)
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		return 2
	}

	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "run":
		path, _ := subResult.PrimaryArg()
		settings, err := loadSettings(path)
		if err != nil {
			logging.PrintErrorMessage("Config Error", err)
			return 2
		}
		applyOverrides(settings, result.Arguments, subResult.Arguments, subResult.HasFlag("watch"))
		logging.Initialize(settings.LogLevel)
		logging.ConfigureColor(settings.Color)
		return execRunCommand(path, settings)
	case "runs":
		if c, ok := result.Arguments["color"]; ok {
			logging.ConfigureColor(c.(string))
		}
		path, _ := subResult.PrimaryArg()
		return execRunsCommand(path, subResult.HasFlag("events"))
	}
	return 0
}

// applyOverrides lets command line arguments take precedence over the
// settings file.
func applyOverrides(settings *config.Settings, global, run map[string]interface{}, watch bool) {
	if v, ok := global["loglevel"]; ok {
		settings.LogLevel = v.(string)
	}
	if v, ok := global["color"]; ok {
		settings.Color = v.(string)
	}
	if v, ok := run["mode"]; ok {
		settings.Mode = v.(string)
	}
	if v, ok := run["trace"]; ok {
		settings.TraceDB = v.(string)
	}
	if watch {
		settings.Watch = true
	}
}
