// Package cmd implements the compose CLI commands.
//
// The command structure follows standard Go CLI patterns with a root command
// that dispatches to subcommands (init, parse, check, config, functions).
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	Run         func(args []string) error
	SubCommands []*Command
}

var rootCmd = &Command{
	Name:  "compose",
	Short: "compose - declarative components with reactive bindings",
	Long: `compose checks the bind expressions and settings of a compose project.

Use "compose <command> --help" for more information about a command.`,
	Usage: "compose <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	// workDir is the directory commands resolve the project from.
	workDir = "."

	log = logrus.New()
)

// Execute runs the CLI with the process arguments.
func Execute() error {
	return run(os.Args[1:])
}

func run(args []string) error {
	log.SetOutput(stderr)
	log.SetLevel(logrus.WarnLevel)

	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	// Handle global flags and extract --dir
	var filteredArgs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp(rootCmd)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--version", "version":
			if len(filteredArgs) == 0 {
				fmt.Fprintf(stdout, "compose CLI version %s (built %s)\n", Version, BuildTime)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--debug":
			log.SetLevel(logrus.DebugLevel)
		case "--dir", "-C":
			if i+1 >= len(args) {
				return fmt.Errorf("%s requires a directory path", arg)
			}
			workDir = args[i+1]
			i++
		default:
			if strings.HasPrefix(arg, "--dir=") {
				workDir = strings.TrimPrefix(arg, "--dir=")
				continue
			}
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs

	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	// Find and execute the command
	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(rootCmd)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	// Check for help flag on subcommand
	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	log.WithField("command", cmdName).Debug("running")
	return cmd.Run(cmdArgs)
}

func printHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", cmd.Usage)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Commands:")
	for _, sub := range cmd.SubCommands {
		fmt.Fprintf(stdout, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Flags:")
	fmt.Fprintln(stdout, "  -h, --help           Show help for a command")
	fmt.Fprintln(stdout, "  -v, --version        Show version information")
	fmt.Fprintln(stdout, "  -C, --dir DIR        Resolve the project from DIR (default: .)")
	fmt.Fprintln(stdout, "  --debug              Log what commands do")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Environment:")
	fmt.Fprintln(stdout, "  COMPOSE_*            Override compose.yaml settings, e.g. COMPOSE_LAYOUT=form")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Examples:")
	fmt.Fprintln(stdout, "  compose parse '{name} ({age})'     Show how an expression compiles")
	fmt.Fprintln(stdout, "  compose check                      Compile the binds listed in compose.yaml")
	fmt.Fprintln(stdout, "  compose config                     Print the effective settings")
}

func printCommandHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", cmd.Usage)
}
