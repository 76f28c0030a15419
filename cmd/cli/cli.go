package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"monacobundle.dev/internal/config"
)

type Command interface {
	Name() string
	Description() string

	// Parse is given an allocated flagSet, and the set of args that are specific to this command.
	// It should parse the args, and return an error if unexpected values were received in the flags.
	Parse(flagSet *pflag.FlagSet, args []string) error

	// Run should run the command, and return an error if something went wrong.
	Run() error
}

var (
	commands = []Command{
		&BuildCommand{},
		&ServeCommand{},
		&ListCommand{},
		&VersionCommand{},
	}
)

func showUsageFooter() {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "monacobundle %s\n\n", config.GetVersion())
}

func showUsage() {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Usage: monacobundle [-p $PROJECT_PATH] [command] [options]\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Commands look for node_modules/monaco-editor in the project directory or one of its parents.\n")
	fmt.Fprintf(os.Stderr, "You can point at a specific copy of the library with the MONACO_EDITOR_PATH environment variable.\n")
	fmt.Fprintf(os.Stderr, "\n")

	fmt.Fprintf(os.Stderr, "Available commands:\n\n")

	longestCmdNameLength := 0
	for _, cmd := range commands {
		if len(cmd.Name()) > longestCmdNameLength {
			longestCmdNameLength = len(cmd.Name())
		}
	}

	for _, cmd := range commands {
		fmt.Fprintf(os.Stderr, "\t%s%s\t%s\n", cmd.Name(), strings.Repeat(" ", longestCmdNameLength-len(cmd.Name())), cmd.Description())
	}

	showUsageFooter()
	os.Exit(1)
}

func showCommandUsage(cmd Command, flagSet *pflag.FlagSet) {
	shortUsage := fmt.Sprintf("%s [options]", cmd.Name())

	// allow commands to override the short usage text
	if cmdWithShortUsage, ok := cmd.(interface{ ShortUsage() string }); ok {
		shortUsage = cmdWithShortUsage.ShortUsage()
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Usage: monacobundle %s\n", shortUsage)
	fmt.Fprintf(os.Stderr, "%s\n", cmd.Description())
	fmt.Fprintf(os.Stderr, "\n")

	if flagSet.HasFlags() {
		flagSet.PrintDefaults()
	} else {
		fmt.Fprintf(os.Stderr, "This command has no options.\n")
	}

	showUsageFooter()
	os.Exit(1)
}

func main() {
	args := os.Args[1:]

	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		showUsage()
	}

	// First, allow a project path override to take place
	if args[0] == "--project" || args[0] == "-p" {
		if len(args) < 3 {
			fmt.Fprintf(os.Stderr, "missing argument for --project flag\n")
			showUsage()
		}

		if _, err := config.SetProjectPath(args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}
		args = args[2:]
	}

	// Next, verify that a command was given
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "missing command\n")
		showUsage()
	}

	commandName := args[0]
	args = args[1:]

	// Make sure this is a real command
	var command Command
	for _, cmd := range commands {
		if cmd.Name() == commandName {
			command = cmd
			break
		}
	}

	if command == nil {
		fmt.Fprintf(os.Stderr, "unrecognized command: %s\n\n", commandName)
		showUsage()
	}

	// Perform parsing
	flagSet := pflag.NewFlagSet(commandName, pflag.ExitOnError)
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "\n")
		showCommandUsage(command, flagSet)
	}
	if err := command.Parse(flagSet, args); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		showCommandUsage(command, flagSet)
	}

	// Run the command
	startTime := time.Now()
	if err := command.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n\n", err)
		os.Exit(1)
	}

	execDuration := (time.Since(startTime) + time.Millisecond).Truncate(time.Millisecond)
	fmt.Fprintf(os.Stderr, "\n⚡️%s completed in %s\n", commandName, execDuration)
}
