package nanobar

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/bombsimon/logrusr/v3"
	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"nanobar/pkg/progress"
)

// Command line flags shared by every subcommand
var (
	width     int
	fillChar  string
	emptyChar string
	forceTTY  bool
	forcePipe bool
	debug     bool
)

// NewRootCmd creates the root command for the nanobar CLI
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nanobar",
		Short: "nanobar renders thread-safe terminal progress bars",
		Long: `nanobar drives a small terminal progress bar. It redraws in place on an
interactive terminal and prints one line per update when output is piped.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().IntVarP(&width, "width", "w", progress.DefaultWidth, "Bar width in characters")
	rootCmd.PersistentFlags().StringVar(&fillChar, "fill", string(progress.DefaultFill), "Glyph for completed segments")
	rootCmd.PersistentFlags().StringVar(&emptyChar, "empty", string(progress.DefaultEmpty), "Glyph for remaining segments")
	rootCmd.PersistentFlags().BoolVar(&forceTTY, "tty", false, "Always redraw in place")
	rootCmd.PersistentFlags().BoolVar(&forcePipe, "no-tty", false, "Never redraw in place, print one line per update")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "v", false, "Enable debug output")
	rootCmd.MarkFlagsMutuallyExclusive("tty", "no-tty")

	rootCmd.AddCommand(newDemoCmd())
	rootCmd.AddCommand(newWorkersCmd())
	rootCmd.AddCommand(newCopyCmd())

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		red := color.New(color.FgRed)
		fmt.Fprintln(os.Stderr, red.Sprintf("Error: %v", err))
		os.Exit(1)
	}
}

// newBar applies the shared flags to a builder writing to cmd's output
func newBar(cmd *cobra.Command, total uint64) (*progress.Builder, error) {
	fill, err := singleRune("fill", fillChar)
	if err != nil {
		return nil, err
	}
	empty, err := singleRune("empty", emptyChar)
	if err != nil {
		return nil, err
	}

	b := progress.New(total).
		Width(width).
		Fill(fill).
		Empty(empty).
		Writer(cmd.OutOrStdout()).
		Logger(newLogger())
	if forceTTY {
		b.TTY(true)
	}
	if forcePipe {
		b.TTY(false)
	}
	return b, nil
}

func singleRune(name, s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("--%s must be a single character, got %q", name, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// newLogger returns a logr.Logger backed by logrus on stderr
func newLogger() logr.Logger {
	logrusLog := logrus.New()
	logrusLog.SetOutput(os.Stderr)
	logrusLog.SetFormatter(&logrus.TextFormatter{})
	if debug {
		logrusLog.SetLevel(logrus.DebugLevel)
	} else {
		logrusLog.SetLevel(logrus.InfoLevel)
	}
	return logrusr.New(logrusLog)
}
