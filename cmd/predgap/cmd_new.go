package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/regkit/predgap/internal/wizard"
)

func newNewCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new <identity>",
		Short: "Create a new device profile YAML",
		Long: `Create a device profile file for use as a subject or reference.

When running in a terminal (TTY), launches an interactive wizard to collect
the profile fields. In non-interactive environments (CI, pipes), writes a
skeleton profile with just the identity filled in.

The profile is written to <identity>.yaml in the current directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newProfileE(cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing profile file")

	return cmd
}

func newProfileE(cmd *cobra.Command, identity string, force bool) error {
	if err := wizard.ValidateIdentity(identity); err != nil {
		return err
	}

	outPath := identity + ".yaml"
	if !force {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
		}
	}

	var content string
	// Check TTY from the command's input stream, not os.Stdin directly.
	inReader := cmd.InOrStdin()
	isTTY := false
	if f, ok := inReader.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	if isTTY {
		spec, err := wizard.RunProfileWizard(cmd.InOrStdin(), cmd.OutOrStdout(), identity)
		if err != nil {
			return err
		}
		// The wizard can edit the identity; the file name follows it.
		if spec.Identity != "" && spec.Identity != identity {
			outPath = spec.Identity + ".yaml"
		}
		content, err = wizard.GenerateProfileYAML(spec)
		if err != nil {
			return err
		}
	} else {
		content = defaultProfileYAML(identity)
	}

	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", outPath) //nolint:errcheck
	return nil
}

// defaultProfileYAML is the non-interactive skeleton.
func defaultProfileYAML(identity string) string {
	var b strings.Builder
	b.WriteString("# Device profile generated by predgap new.\n")
	b.WriteString("identity: " + identity + "\n")
	b.WriteString("classification_key: \"\"\n")
	b.WriteString("name: \"\"\n")
	b.WriteString("intended_use: \"\"\n")
	b.WriteString("technology: \"\"\n")
	b.WriteString("extensions: {}\n")
	return b.String()
}
