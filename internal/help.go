package internal

import (
	"bytes"
	"errors"
	"regexp"

	"github.com/alecthomas/kong"
)

// errHelpPrinted stops kong from exiting after it prints help.
var errHelpPrinted = errors.New("help printed")

var helpFlagLine = regexp.MustCompile(`\n\s*-h, --help\s*Show context-sensitive help.`)

// StringHelpPrinter renders kong's help into output instead of stdout, without
// the app summary and the -h line.
func StringHelpPrinter(output *string) kong.HelpPrinter {
	return func(options kong.HelpOptions, ctx *kong.Context) error {
		options.NoAppSummary = true
		buf := &bytes.Buffer{}
		ctx.Stdout = buf

		if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
			*output = buf.String()
			return err
		}

		*output = helpFlagLine.ReplaceAllLiteralString(buf.String(), "")
		return errHelpPrinted
	}
}

// CommandHelp returns the flag help for a kong command struct.
func CommandHelp(cmd any) (string, error) {
	helpText := ""
	k, err := kong.New(cmd, kong.Help(StringHelpPrinter(&helpText)))
	if err != nil {
		return helpText, err
	}

	if _, err = k.Parse([]string{"--help"}); err != nil && !errors.Is(err, errHelpPrinted) {
		return helpText, err
	}

	return helpText, nil
}
