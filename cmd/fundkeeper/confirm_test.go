package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mmynk/fundkeeper/internal/app"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "yes", input: "yes\n", wantErr: nil},
		{name: "short yes", input: "Y\n", wantErr: nil},
		{name: "no", input: "n\n", wantErr: errAborted},
		{name: "empty line", input: "\n", wantErr: errAborted},
		{name: "closed input", input: "", wantErr: errAborted},
		{name: "no trailing newline", input: "y", wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := confirm(strings.NewReader(tt.input), &out, "Delete expense e1?")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("confirm(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
			if !strings.Contains(out.String(), "Delete expense e1? [y/N]") {
				t.Errorf("prompt not shown: %q", out.String())
			}
		})
	}
}

func TestConfirmedCommandAbortsWithoutConsent(t *testing.T) {
	built := false
	cmd := confirmedCommand("kick <uid>", "Remove a member", "Remove %s from the fund?",
		func(uid string) app.Command {
			built = true
			return app.KickUser{UID: uid}
		},
	)

	var out bytes.Buffer
	cmd.SetIn(strings.NewReader("no\n"))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"uid-bob"})

	if err := cmd.Execute(); !errors.Is(err, errAborted) {
		t.Fatalf("Execute = %v, want %v", err, errAborted)
	}
	if built {
		t.Error("command was dispatched after the prompt was declined")
	}
	if !strings.Contains(out.String(), "Remove uid-bob from the fund?") {
		t.Errorf("unexpected prompt: %q", out.String())
	}
	if f := cmd.Flags().Lookup("yes"); f == nil || f.Shorthand != "y" {
		t.Error("expected a --yes/-y flag")
	}
}
