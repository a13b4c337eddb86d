package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/drix00/xray-spectrum-analyzer/am"
	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/sym"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: sym.AM + " Manage xrsa configuration",
	Long: sym.AM + ` am — Manage xrsa configuration ("I am")

Display and manage where tables are read from, where the catalog is
written, and how watching and logging behave.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (XRSA_* prefix)
3. Project config (./am.toml, searched upward)
4. User config (~/.xrsa/am.toml)
5. System config (/etc/xrsa/am.toml)
6. Default values

Examples:
  xrsa am show                    # Show current configuration
  xrsa am show --format json      # Show configuration in JSON format
  xrsa am get data.relax          # Get specific config value
  xrsa am validate                # Validate current configuration
  xrsa am init                    # Write the defaults to ./am.toml`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., data.relax, source.s3.bucket)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each setting comes from",
	RunE:  runAmWhere,
}

var amInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Long: `Write the built-in defaults as TOML, to ./am.toml unless a path is given.
An existing file is kept as .back1 (older copies rotate up to .back3).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAmInit,
}

var (
	configFormat string
	initForce    bool
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
	AmCmd.AddCommand(amInitCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	switch configFormat {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "marshal config to JSON")
		}
		fmt.Fprintln(w, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "marshal config to YAML")
		}
		fmt.Fprintf(w, "# xrsa configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "marshal config to TOML")
		}
		fmt.Fprintf(w, "# xrsa configuration\n%s", data)

	default:
		return errors.NewInvalidRequestError("unsupported format: %s (supported: toml, json, yaml)", configFormat)
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !am.IsSet(key) {
		return errors.NewNotFoundError("configuration key %q", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Println("Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(w, "  1. [default]      Built-in defaults")
	fmt.Fprintln(w, "  2. [system]       /etc/xrsa/am.toml")
	fmt.Fprintln(w, "  3. [user]         ~/.xrsa/am.toml")
	fmt.Fprintln(w, "  4. [project]      ./am.toml (searches up directories)")
	fmt.Fprintln(w, "  5. [environment]  XRSA_* environment variables")
	fmt.Fprintln(w)

	bySource := intro.BySource()
	fmt.Fprintln(w, "Active configuration:")
	for _, src := range am.SourceOrder {
		settings := bySource[src]
		if len(settings) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s: %d settings\n", src, len(settings))
		for _, s := range settings {
			value := fmt.Sprintf("%v", s.Value)
			if len(value) > 50 {
				value = value[:47] + "..."
			}
			if src == am.SourceDefault {
				fmt.Fprintf(w, "  %s = %s\n", s.Key, value)
				continue
			}
			fmt.Fprintf(w, "  %s = %s  (%s)\n", s.Key, value, s.SourcePath)
		}
	}
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path := am.ConfigFileName
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !initForce {
		return errors.WithHint(
			errors.NewInvalidRequestError("%s already exists", path),
			"use --force to overwrite it; the old file is kept as .back1")
	}

	cfg, err := am.Defaults()
	if err != nil {
		return err
	}
	if err := am.WriteFile(path, cfg); err != nil {
		return err
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Wrote default configuration to %s", path)
	return nil
}
