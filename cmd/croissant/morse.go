package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"croissant/internal/morse"
)

var signalFlag string

var morseCmd = &cobra.Command{
	Use:   "morse <text>",
	Short: "Print text as Morse code",
	Long: `Print text as Morse code through a signal.

Signals:
  text   dots and dashes, "/" between words
  voice  di/dah syllables, "|" between words

Letters, digits and . , ? / are supported. Printing stops at the first
character without a code.

Examples:
  croissant morse junwo
  croissant morse "sos" --signal voice`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMorse,
}

func init() {
	morseCmd.Flags().StringVar(&signalFlag, "signal", "", "Signal to print with (text, voice; default from config)")
	rootCmd.AddCommand(morseCmd)
}

func runMorse(cmd *cobra.Command, args []string) error {
	name := current.cfg.Morse.Signal
	if cmd.Flags().Changed("signal") {
		name = signalFlag
	}

	out := cmd.OutOrStdout()
	sig, err := morse.SignalFor(name, out)
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	err = morse.NewPrinter(sig).Print(text)
	// Terminate whatever was printed, even on failure.
	fmt.Fprintln(out)
	return err
}
