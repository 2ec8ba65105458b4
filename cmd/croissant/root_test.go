package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"croissant/internal/errors"
	"croissant/internal/paths"
)

// execute runs the CLI in a fresh temp working directory with all flags
// reset to their defaults.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeIn(t, t.TempDir(), args...)
}

func executeIn(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--workdir", dir}, args...))

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestEval_Subtract(t *testing.T) {
	g := NewWithT(t)

	stdout, _, err := execute(t, "eval", "5 - 3")

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(Equal("5-3= 2\n"))
}

func TestEval_SplitArgsAndLegacyStyle(t *testing.T) {
	g := NewWithT(t)

	stdout, _, err := execute(t, "eval", "--style", "legacy", "5", "-", "3")

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(Equal("5+3= 2\n"))
}

func TestEval_UnhandledIsSilent(t *testing.T) {
	g := NewWithT(t)

	stdout, _, err := execute(t, "eval", "--chain", "+,-", "7 * 6")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(BeEmpty())

	_, _, err = execute(t, "eval", "--chain", "+,-", "--strict", "7 * 6")
	g.Expect(errors.HasCode(err, errors.UnhandledOperator)).To(BeTrue())
}

func TestEval_DivisionByZero(t *testing.T) {
	g := NewWithT(t)

	stdout, _, err := execute(t, "eval", "9 / 0")

	g.Expect(errors.HasCode(err, errors.DivisionByZero)).To(BeTrue())
	g.Expect(stdout).To(BeEmpty())
}

func TestEval_JSON(t *testing.T) {
	g := NewWithT(t)

	stdout, _, err := execute(t, "eval", "--format", "json", "6 * 7")
	g.Expect(err).NotTo(HaveOccurred())

	var report struct {
		Results []struct {
			Status string `json:"status"`
			Value  int    `json:"value"`
			Output string `json:"output"`
		} `json:"results"`
	}
	g.Expect(json.Unmarshal([]byte(stdout), &report)).To(Succeed())
	g.Expect(report.Results).To(HaveLen(1))
	g.Expect(report.Results[0].Value).To(Equal(42))
	g.Expect(report.Results[0].Output).To(Equal("6*7= 42"))
}

func TestEval_InvalidExpression(t *testing.T) {
	_, _, err := execute(t, "eval", "5 % 3")
	if !errors.HasCode(err, errors.InvalidOperator) {
		t.Errorf("eval 5 %% 3 error = %v, want INVALID_OPERATOR", err)
	}
}

func TestEval_NegativeOperands(t *testing.T) {
	g := NewWithT(t)

	stdout, _, err := execute(t, "eval", "--", "-4 - 2")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(Equal("-4-2= -6\n"))

	stdout, _, err = execute(t, "eval", "--", "5", "-", "-3")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(Equal("5--3= 8\n"))

	_, _, err = execute(t, "eval", "-4 - 2")
	g.Expect(errors.HasCode(err, errors.InvalidInput)).To(BeTrue())
	g.Expect(err.Error()).To(ContainSubstring(`eval -- "-4 - 2"`))

	_, _, err = execute(t, "eval", "--bogus", "1 + 1")
	g.Expect(err).To(HaveOccurred())
	g.Expect(errors.CodeOf(err)).To(BeEmpty())
}

func TestBatch_YAMLReport(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "requests.txt")
	g.Expect(os.WriteFile(path, []byte("5 - 3\n# skip\n2 + 2\n"), 0644)).To(Succeed())

	stdout, _, err := executeIn(t, dir, "batch", "--format", "yaml", path)
	g.Expect(err).NotTo(HaveOccurred())

	var report struct {
		Source string `yaml:"source"`
		Stats  struct {
			Total   int `yaml:"total"`
			Handled int `yaml:"handled"`
		} `yaml:"stats"`
	}
	g.Expect(yaml.Unmarshal([]byte(stdout), &report)).To(Succeed())
	g.Expect(report.Source).To(Equal("requests.txt"))
	g.Expect(report.Stats.Total).To(Equal(2))
	g.Expect(report.Stats.Handled).To(Equal(2))
}

func TestBatch_HumanFailureExitsWithError(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "requests.txt")
	g.Expect(os.WriteFile(path, []byte("8 / 0\n1 + 1\n"), 0644)).To(Succeed())

	stdout, _, err := executeIn(t, dir, "batch", "--color", "never", path)

	g.Expect(errors.HasCode(err, errors.DivisionByZero)).To(BeTrue())
	g.Expect(stdout).To(ContainSubstring("1+1= 2"))
	g.Expect(stdout).To(ContainSubstring("2 requests: 1 handled, 0 unhandled, 1 failed"))
}

func TestConfigFileDrivesChain(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()
	g.Expect(os.MkdirAll(paths.StateDir(dir), 0755)).To(Succeed())
	g.Expect(os.WriteFile(paths.ConfigPath(dir), []byte(`{"version": 1, "chain": ["+"], "output": {"style": "legacy"}}`), 0644)).To(Succeed())

	stdout, _, err := executeIn(t, dir, "eval", "5 - 3")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(BeEmpty(), "subtraction is not in the configured chain")

	stdout, _, err = executeIn(t, dir, "config", "show", "--diff")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(ContainSubstring("chain: [+]"))
	g.Expect(stdout).To(ContainSubstring("output.style: legacy"))
}

func TestConfigShow_JSON(t *testing.T) {
	g := NewWithT(t)

	stdout, _, err := execute(t, "config", "show", "--format", "json", "--strict")
	g.Expect(err).NotTo(HaveOccurred())

	var resp ConfigShowResponse
	g.Expect(json.Unmarshal([]byte(stdout), &resp)).To(Succeed())
	g.Expect(resp.UsedDefaults).To(BeTrue())
	g.Expect(resp.Config).To(HaveKeyWithValue("strict", true))
}

func TestConfigShow_Human(t *testing.T) {
	g := NewWithT(t)

	stdout, _, err := execute(t, "config", "show", "--style", "legacy")

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(ContainSubstring("Source: defaults (no config file found)"))
	g.Expect(stdout).To(ContainSubstring("  style: legacy (default: standard)"))
	g.Expect(stdout).To(ContainSubstring("chain: + - * /\n"))
}

func TestConfigEnv(t *testing.T) {
	stdout, _, err := execute(t, "config", "env")
	if err != nil {
		t.Fatalf("config env failed: %v", err)
	}
	for _, name := range []string{"CROISSANT_CHAIN", "CROISSANT_OUTPUT_STYLE", "CROISSANT_LOGGING_LEVEL"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("config env output missing %s", name)
		}
	}
}

func TestInvalidFlagValue(t *testing.T) {
	_, _, err := execute(t, "eval", "--chain", "+,%", "1 + 1")
	if !errors.HasCode(err, errors.ConfigInvalid) {
		t.Errorf("error = %v, want CONFIG_INVALID", err)
	}

	_, _, err = execute(t, "eval", "--format", "xml", "1 + 1")
	if !errors.HasCode(err, errors.InvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestMorse(t *testing.T) {
	g := NewWithT(t)

	stdout, _, err := execute(t, "morse", "junwo")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(Equal(".--- ..- -. .-- --- \n"))

	stdout, _, err = execute(t, "morse", "--signal", "voice", "e", "t")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(Equal("di | dah \n"))

	stdout, _, err = execute(t, "morse", "e~t")
	g.Expect(errors.HasCode(err, errors.UnsupportedCharacter)).To(BeTrue())
	g.Expect(stdout).To(Equal(". \n"))
}

func TestWeapon(t *testing.T) {
	g := NewWithT(t)

	stdout, _, err := execute(t, "weapon", "sword")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(Equal("(Sword) attack\n(Sword) repair\n"))

	stdout, _, err = execute(t, "weapon", "bow", "attack", "--swap", "axe")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(Equal("(Bow) attack\n(Axe) attack\n"))

	stdout, _, err = execute(t, "weapon", "--list")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(Equal("axe\nbow\nsword\n"))

	_, _, err = execute(t, "weapon", "spear")
	g.Expect(errors.HasCode(err, errors.UnknownWeapon)).To(BeTrue())
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(stdout, "croissant version ") {
		t.Errorf("version output = %q", stdout)
	}
	if !strings.Contains(stdout, "  operators:      + - * /\n") {
		t.Errorf("version output should list the operators, got %q", stdout)
	}
}

func TestVersion_JSONReportsConfiguredChain(t *testing.T) {
	g := NewWithT(t)

	stdout, _, err := execute(t, "version", "--format", "json", "--chain", "/,+")
	g.Expect(err).NotTo(HaveOccurred())

	var got struct {
		Version   string   `json:"version"`
		Operators []string `json:"operators"`
		Chain     []string `json:"chain"`
		Weapons   []string `json:"weapons"`
	}
	g.Expect(json.Unmarshal([]byte(stdout), &got)).To(Succeed())
	g.Expect(got.Version).NotTo(BeEmpty())
	g.Expect(got.Operators).To(Equal([]string{"+", "-", "*", "/"}))
	g.Expect(got.Chain).To(Equal([]string{"/", "+"}))
	g.Expect(got.Weapons).To(ContainElement("sword"))
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, errors.New(errors.UnknownWeapon, "unknown weapon \"spear\""))

	got := buf.String()
	if !strings.HasPrefix(got, "Error: [UNKNOWN_WEAPON] unknown weapon \"spear\"\n") {
		t.Errorf("reportError() = %q", got)
	}
	if !strings.Contains(got, "hint: List the available weapons (croissant weapon --list)") {
		t.Errorf("reportError() should print the suggested fix, got %q", got)
	}
}

func TestVerboseLogsToStderr(t *testing.T) {
	g := NewWithT(t)

	_, stderr, err := execute(t, "-vv", "eval", "1 + 1")

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stderr).To(ContainSubstring("[debug] chain assembled | chain=+ - * /"))
}
