package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/fundkeeper/internal/app"
)

var errAborted = errors.New("aborted")

// confirm asks on out and reads the answer from in. Only y or yes proceeds.
func confirm(in io.Reader, out io.Writer, question string) error {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return errAborted
	}
}

// confirmedCommand builds a command that asks before running a destructive
// action unless --yes is given.
func confirmedCommand(use, short, question string, build func(id string) app.Command) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf(question, args[0])); err != nil {
					return err
				}
			}
			return runCommand(cmd, build(args[0]))
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
