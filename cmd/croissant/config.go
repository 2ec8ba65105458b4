package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"croissant/internal/config"
	"croissant/internal/output"
)

var configShowDiff bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect croissant configuration",
	Long:  "View the configuration stored in .croissant/config.json and its overrides",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Display the effective configuration after environment and flag overrides.

Examples:
  croissant config show                  # Pretty-print current config
  croissant config show --format json    # Machine-readable output
  croissant config show --diff           # Only show non-default values`,
	RunE: runConfigShow,
}

var configEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "List supported environment variables",
	Long:  "Display all supported CROISSANT_* environment variable overrides",
	RunE:  runConfigEnv,
}

func init() {
	configShowCmd.Flags().BoolVar(&configShowDiff, "diff", false, "Only show non-default values")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEnvCmd)
	rootCmd.AddCommand(configCmd)
}

// ConfigShowResponse is the response format for config show
type ConfigShowResponse struct {
	ConfigPath   string                 `json:"configPath,omitempty"`
	UsedDefaults bool                   `json:"usedDefaults"`
	EnvOverrides []config.EnvOverride   `json:"envOverrides,omitempty"`
	Config       map[string]interface{} `json:"config"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	a := current
	out := cmd.OutOrStdout()

	if a.format() == output.FormatHuman {
		outputConfigHuman(out, a.load, a.cfg, configShowDiff)
		return nil
	}

	configMap := asMap(a.cfg)
	if configShowDiff {
		configMap = computeDiff(configMap, asMap(config.DefaultConfig()))
	}

	return output.Write(out, ConfigShowResponse{
		ConfigPath:   a.load.ConfigPath,
		UsedDefaults: a.load.UsedDefaults,
		EnvOverrides: a.load.EnvOverrides,
		Config:       configMap,
	}, a.format())
}

func asMap(cfg *config.Config) map[string]interface{} {
	m, _ := output.Normalize(cfg).(map[string]interface{})
	if m == nil {
		m = map[string]interface{}{}
	}
	return m
}

func outputConfigHuman(w io.Writer, result *config.LoadResult, cfg *config.Config, diffOnly bool) {
	fmt.Fprintln(w, "croissant configuration")
	fmt.Fprintln(w, strings.Repeat("─", 50))

	if result.UsedDefaults {
		fmt.Fprintln(w, "Source: defaults (no config file found)")
	} else if result.ConfigPath != "" {
		fmt.Fprintf(w, "Source: %s\n", result.ConfigPath)
	}

	if len(result.EnvOverrides) > 0 {
		fmt.Fprintln(w, "\nEnvironment Overrides:")
		for _, ov := range result.EnvOverrides {
			fmt.Fprintf(w, "  %s=%s → %s\n", ov.EnvVar, ov.FromValue, ov.Path)
		}
	}

	fmt.Fprintln(w)

	defaults := config.DefaultConfig()
	if diffOnly {
		fmt.Fprintln(w, "Modified Settings (differs from defaults):")
		fmt.Fprintln(w)
		diff := computeDiff(asMap(cfg), asMap(defaults))
		if len(diff) == 0 {
			fmt.Fprintln(w, "  (no modifications - using all defaults)")
		}
		printDiff(w, diff, "")
		return
	}

	p := func(name string, value, defaultValue interface{}) {
		printConfigSection(w, name, value, defaultValue)
	}
	p("version", cfg.Version, defaults.Version)
	p("chain", chainLabel(cfg.Chain), chainLabel(defaults.Chain))
	p("strict", cfg.Strict, defaults.Strict)

	fmt.Fprintln(w, "\noutput:")
	p("  style", cfg.Output.Style, defaults.Output.Style)
	p("  format", cfg.Output.Format, defaults.Output.Format)
	p("  color", cfg.Output.Color, defaults.Output.Color)

	fmt.Fprintln(w, "\nwatch:")
	p("  debounceMs", cfg.Watch.DebounceMs, defaults.Watch.DebounceMs)

	fmt.Fprintln(w, "\nmorse:")
	p("  signal", cfg.Morse.Signal, defaults.Morse.Signal)

	fmt.Fprintln(w, "\nlogging:")
	p("  level", cfg.Logging.Level, defaults.Logging.Level)
	p("  file", cfg.Logging.File, defaults.Logging.File)
	p("  maxSize", sizeLabel(cfg.Logging.MaxSize), sizeLabel(defaults.Logging.MaxSize))
	p("  maxBackups", cfg.Logging.MaxBackups, defaults.Logging.MaxBackups)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use 'croissant config show --format json' for machine-readable output")
	fmt.Fprintln(w, "Use 'croissant config env' to see supported environment variables")
}

func sizeLabel(size string) string {
	if size == "" {
		return "(no rotation)"
	}
	return size
}

func printConfigSection(w io.Writer, name string, value, defaultValue interface{}) {
	modified := ""
	if !isEqual(value, defaultValue) {
		modified = fmt.Sprintf(" (default: %v)", defaultValue)
	}
	fmt.Fprintf(w, "%s: %v%s\n", name, value, modified)
}

func printDiff(w io.Writer, diff map[string]interface{}, prefix string) {
	for _, key := range sortedKeys(diff) {
		if nested, ok := diff[key].(map[string]interface{}); ok {
			printDiff(w, nested, prefix+key+".")
			continue
		}
		fmt.Fprintf(w, "  %s%s: %v\n", prefix, key, diff[key])
	}
}

func runConfigEnv(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, "Supported croissant Environment Variables")
	fmt.Fprintln(w, strings.Repeat("─", 50))
	fmt.Fprintln(w)

	for _, v := range config.EnvVars {
		fmt.Fprintf(w, "  %-30s %s (%s)\n", v.Name, v.Description, v.Type)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Example usage:")
	fmt.Fprintln(w, "  CROISSANT_CHAIN=-,+ croissant eval \"5 - 3\"")
	fmt.Fprintln(w, "  CROISSANT_LOGGING_LEVEL=debug croissant batch requests.txt")
	fmt.Fprintln(w, "  CROISSANT_CONFIG_PATH=/etc/croissant.json croissant config show")
	return nil
}

func isEqual(a, b interface{}) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func computeDiff(cur, defaults map[string]interface{}) map[string]interface{} {
	diff := make(map[string]interface{})
	for key, currentVal := range cur {
		defaultVal, exists := defaults[key]
		if !exists {
			diff[key] = currentVal
			continue
		}

		currentMap, currentIsMap := currentVal.(map[string]interface{})
		defaultMap, defaultIsMap := defaultVal.(map[string]interface{})
		if currentIsMap && defaultIsMap {
			if nested := computeDiff(currentMap, defaultMap); len(nested) > 0 {
				diff[key] = nested
			}
		} else if !isEqual(currentVal, defaultVal) {
			diff[key] = currentVal
		}
	}
	return diff
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
