// Package cli implements the factcheck command line tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"docverify/internal/config"
	"docverify/internal/logging"
)

// Version is overridden at build time with -ldflags "-X docverify/internal/cli.Version=...".
var Version = "dev"

// app carries state shared by the subcommands.
type app struct {
	cfgFile string
	format  string
	verbose bool
	cfg     *config.Config
}

// NewRootCmd builds the factcheck command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "factcheck",
		Short: "Extract facts from Korean notices and check answers against them",
		Long: `factcheck extracts deadlines, obligations, penalties, amounts and bank
accounts from Korean government and legal notices, and checks generated
answers against those facts.

An answer that drops a deadline, changes an amount or adds a penalty the
notice never mentions is rejected and replaced with a refusal.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.docverify/config.yaml)")
	root.PersistentFlags().StringVarP(&a.format, "format", "f", "json", "output format (json, yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newExtractCmd(a),
		newValidateCmd(a),
		newExportCmd(a),
		newTokenCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	path := a.cfgFile
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".docverify", "config.yaml")
		}
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := cfg.Log
	if a.verbose {
		logCfg.Level = "debug"
	} else if !strings.EqualFold(logCfg.Level, "debug") {
		logCfg.Level = "warn"
	}
	logging.Setup(logCfg)
	logging.SetOutput(cmd.ErrOrStderr())
	if a.verbose {
		logging.For("cli").Debugf("config file: %s", path)
	}

	switch a.format {
	case "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown format %q, want json or yaml", a.format)
	}
}

// render writes v in the selected format. YAML output uses the JSON field names.
func (a *app) render(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	if a.format != "yaml" {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// readInput returns the contents of path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "factcheck %s\n", Version)
		},
	}
}
