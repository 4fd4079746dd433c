// Package log provides the user-facing output of sobundle. Status and
// diagnostic messages go to stderr, plain report output goes to stdout, so
// that the report can be piped or redirected without the noise.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Output is the writer for status and diagnostic messages.
	Output io.Writer = os.Stderr

	// ReportOutput is the writer for plain report lines (Print/Printf).
	ReportOutput io.Writer = os.Stdout
)

func init() {
	if f, ok := Output.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		pterm.DisableColor()
	}
}

func logf(style pterm.Style, format string, args []any) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	_, _ = fmt.Fprint(Output, style.Sprint(msg))
}

// Debugf prints a message which is only relevant when tracking down bugs.
// It only prints when --verbose is set.
func Debugf(format string, args ...any) {
	if !viper.GetBool("verbose") {
		return
	}
	logf(pterm.Style{pterm.FgGray}, format, args)
}

// Successf highlights a message as successful.
func Successf(format string, args ...any) {
	logf(pterm.Style{pterm.FgGreen}, format, args)
}

func Success(a ...any) {
	Successf("%s", fmt.Sprint(a...))
}

// Infof outputs a regular user message without any colors or styles.
func Infof(format string, args ...any) {
	logf(pterm.Style{pterm.FgDefault}, format, args)
}

func Info(a ...any) {
	Infof("%s", fmt.Sprint(a...))
}

// Warnf highlights a message as a warning.
func Warnf(format string, args ...any) {
	logf(pterm.Style{pterm.Bold, pterm.FgYellow}, format, args)
}

func Warn(a ...any) {
	Warnf("%s", fmt.Sprint(a...))
}

// Errorf highlights a message as an error.
func Errorf(format string, args ...any) {
	logf(pterm.Style{pterm.Bold, pterm.FgRed}, format, args)
}

func Error(a ...any) {
	Errorf("%s", fmt.Sprint(a...))
}

// Printf writes an unstyled report line to standard output.
func Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	_, _ = fmt.Fprint(ReportOutput, msg)
}

func Print(a ...any) {
	Printf("%s", fmt.Sprint(a...))
}
