package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/carlosrabelo/portsheet/application/services"
	"github.com/carlosrabelo/portsheet/domain/entities"
	"github.com/carlosrabelo/portsheet/infrastructure/config"
	"github.com/carlosrabelo/portsheet/infrastructure/snmp"
	"github.com/carlosrabelo/portsheet/infrastructure/spreadsheet"
	"github.com/carlosrabelo/portsheet/infrastructure/transport"
	"github.com/carlosrabelo/portsheet/platform"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// options holds the command line flags
type options struct {
	configPath string
	target     string
	port       int
	username   string
	platform   string
	transport  string
	output     string
	timeout    string
	verbosity  int
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  --config string     YAML configuration file (default: ./%s, ~/.config/%s/, /etc/%s/)\n", config.FileName, config.AppName, config.AppName)
	fmt.Fprintf(os.Stderr, "  --target string     Switch address (prompted when missing)\n")
	fmt.Fprintf(os.Stderr, "  --port int          Remote port (default 22 for ssh, 23 for telnet)\n")
	fmt.Fprintf(os.Stderr, "  --username string   Login username (prompted when missing)\n")
	fmt.Fprintf(os.Stderr, "  --platform string   Switch vendor: %s (prompted when missing)\n", strings.Join(platform.Names(), ", "))
	fmt.Fprintf(os.Stderr, "  --transport string  ssh or telnet (default \"ssh\")\n")
	fmt.Fprintf(os.Stderr, "  --output string     Workbook file (default %q)\n", config.DefaultOutput)
	fmt.Fprintf(os.Stderr, "  --timeout string    Session timeout, e.g. 60s (default \"%s\")\n", config.DefaultTimeout)
	fmt.Fprintf(os.Stderr, "  --verbose int       Verbosity level: 0=none, 1=debug logs, 2=raw switch output, 3=debug+raw output\n")
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	flagSet := flag.NewFlagSet("portsheet", flag.ContinueOnError)
	flagSet.Usage = printUsage
	flagSet.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	flagSet.StringVar(&opts.target, "target", "", "Switch address")
	flagSet.IntVar(&opts.port, "port", 0, "Remote port")
	flagSet.StringVar(&opts.username, "username", "", "Login username")
	flagSet.StringVar(&opts.platform, "platform", "", "Switch vendor")
	flagSet.StringVar(&opts.transport, "transport", "", "ssh or telnet")
	flagSet.StringVar(&opts.output, "output", "", "Workbook file")
	flagSet.StringVar(&opts.timeout, "timeout", "", "Session timeout")
	flagSet.IntVar(&opts.verbosity, "verbose", 0, "Verbosity level: 0=none, 1=debug logs, 2=raw switch output, 3=debug+raw output")
	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if flagSet.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))
	}
	if opts.verbosity < 0 || opts.verbosity > 3 {
		return nil, fmt.Errorf("--verbose must be 0, 1, 2, or 3")
	}
	return opts, nil
}

// loadConfig reads the explicit file, else the first file found on the
// search path, else defaults
func loadConfig(opts *options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		found, ok := config.Find(config.SearchPaths())
		if !ok {
			return config.Default(), nil
		}
		path = found
	}
	if opts.verbosity == 1 || opts.verbosity == 3 {
		fmt.Printf("DEBUG: Configuration file found at %s\n", path)
	}
	return config.Load(path)
}

// applyFlags overrides file settings with the flags that were given
func applyFlags(cfg *config.Config, opts *options) error {
	if opts.port != 0 {
		cfg.Port = opts.port
	}
	if opts.username != "" {
		cfg.Username = opts.username
	}
	if opts.platform != "" {
		cfg.Platform = opts.platform
	}
	if opts.transport != "" {
		cfg.Transport = opts.transport
	}
	if opts.output != "" {
		cfg.Output = opts.output
	}
	if opts.timeout != "" {
		cfg.Timeout = opts.timeout
	}
	cfg.Normalize()
	return cfg.Validate()
}

// resolveTarget fills the values still missing by asking the operator
func resolveTarget(cfg *config.Config, opts *options, prompter *Prompter) (entities.Target, error) {
	address := opts.target
	var err error
	if address == "" {
		if address, err = prompter.Ask("Switch address"); err != nil {
			return entities.Target{}, err
		}
	}
	if cfg.Username == "" {
		if cfg.Username, err = prompter.Ask("Username"); err != nil {
			return entities.Target{}, err
		}
	}
	if cfg.Password == "" {
		if cfg.Password, err = prompter.Password("Password"); err != nil {
			return entities.Target{}, err
		}
	}
	if cfg.Platform == "" {
		if cfg.Platform, err = prompter.Platform(); err != nil {
			return entities.Target{}, err
		}
	}
	return cfg.ToTarget(address, opts.verbosity)
}

func run(opts *options, in io.Reader, out io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, opts); err != nil {
		return err
	}
	target, err := resolveTarget(cfg, opts, NewPrompter(in, out))
	if err != nil {
		return err
	}

	driver, err := platform.Get(target.Platform)
	if err != nil {
		return err
	}
	defer transport.CloseAll()

	client := transport.Get(target, driver.Dialect())
	if configurable, ok := client.(transport.AuthConfigurable); ok {
		configurable.SetAuthSequence(driver.GetAuthenticationSequence(target.Username, target.Password))
	}

	var appOptions []services.Option
	if cfg.SNMPCommunity != "" {
		appOptions = append(appOptions, services.WithHostnameLookup(snmp.NewHostnameLookup(cfg.SNMPCommunity, cfg.SNMPPort)))
	}
	writer := spreadsheet.NewWorkbookWriter(cfg.Output)
	app := services.NewInventoryApplicationService(target, client, driver, writer, appOptions...)

	fmt.Fprintf(out, "Connecting to %s (%s, %s)\n", target.Address, driver.DisplayName(), target.Transport)
	inventory, err := app.Run()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %s to %s\n", inventory.Hostname, writer.Path())
	return nil
}

// exitCode maps error kinds to process exit codes
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, entities.ErrConnection):
		return 2
	case errors.Is(err, entities.ErrAuthentication):
		return 3
	case errors.Is(err, entities.ErrUnsupportedPlatform), errors.Is(err, entities.ErrCommandRejected):
		return 4
	default:
		return 1
	}
}

// describe turns an error into the message shown to the operator
func describe(err error) string {
	switch {
	case errors.Is(err, entities.ErrConnection):
		return fmt.Sprintf("Could not connect to the switch: %v", err)
	case errors.Is(err, entities.ErrAuthentication):
		return fmt.Sprintf("Login failed, check username and password: %v", err)
	case errors.Is(err, entities.ErrUnsupportedPlatform):
		return fmt.Sprintf("Unsupported switch vendor, choose one of %s: %v", strings.Join(platform.Names(), ", "), err)
	case errors.Is(err, entities.ErrCommandRejected):
		return fmt.Sprintf("The switch rejected a command, check the selected vendor: %v", err)
	case errors.Is(err, entities.ErrNoInterfaces):
		return fmt.Sprintf("Connected, but no interface information could be read: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Portsheet %s (built %s)\n", version, buildTime)

	if err := run(opts, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(exitCode(err))
	}
}
