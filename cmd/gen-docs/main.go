package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stigoleg/auraflow/internal/cmd"
	"github.com/stigoleg/auraflow/internal/config"
)

// gen-docs writes shell completions and a roff man page for the real root
// command, so they never drift from its flags.

const appDescription = "Keep your session active by nudging the pointer while you are idle."

func main() {
	root := cmd.NewRootCmd("dev", viper.New(), func(*cobra.Command, *config.Config) error { return nil })

	if err := writeCompletions(root, filepath.Join("docs", "completions")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := writeMan(root, "man"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func writeCompletions(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	name := root.Name()

	generators := []struct {
		file string
		gen  func(path string) error
	}{
		{name + ".bash", func(p string) error { return root.GenBashCompletionFileV2(p, true) }},
		{"_" + name, root.GenZshCompletionFile},
		{name + ".fish", func(p string) error { return root.GenFishCompletionFile(p, true) }},
	}
	for _, g := range generators {
		if err := g.gen(filepath.Join(dir, g.file)); err != nil {
			return fmt.Errorf("writing %s: %w", g.file, err)
		}
	}
	return nil
}

func writeMan(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, root.Name()+".1"), []byte(manPage(root)), 0o644)
}

func manPage(root *cobra.Command) string {
	name := root.Name()

	var b strings.Builder
	b.WriteString(".TH \"" + strings.ToUpper(name) + "\" \"1\" \"\" \"" + name + "\" \"User Commands\"\n")
	b.WriteString(".SH NAME\n" + name + " \\- " + appDescription + "\n")
	b.WriteString(".SH SYNOPSIS\n.B " + name + "\n[flags]\n")
	b.WriteString(".SH DESCRIPTION\n" + roffEscape(root.Long) + "\n")
	b.WriteString(".SH OPTIONS\n")

	root.InitDefaultHelpFlag()
	root.InitDefaultVersionFlag()
	root.Flags().VisitAll(func(f *pflag.Flag) {
		names := "\\-\\-" + roffEscape(f.Name)
		if f.Shorthand != "" {
			names = "\\-" + f.Shorthand + ", " + names
		}
		if f.Value.Type() != "bool" {
			names += " <" + f.Value.Type() + ">"
		}
		usage := f.Usage
		if f.DefValue != "" && f.Value.Type() != "bool" {
			usage += fmt.Sprintf(" (default %q)", f.DefValue)
		}
		b.WriteString(".TP\n\\fB" + names + "\\fR\n" + roffEscape(usage) + "\n")
	})

	b.WriteString(".SH ENVIRONMENT\n")
	b.WriteString("Every option can also be set as " + config.EnvPrefix + "_<NAME>, e.g. " +
		config.EnvPrefix + "_IDLE_THRESHOLD. A .env file in the working directory is loaded first.\n")
	b.WriteString(".SH EXAMPLES\n")
	b.WriteString(".TP\n\\fB" + name + "\\fR\nStart the interactive TUI.\n")
	b.WriteString(".TP\n\\fB" + name + " \\-s \\-i 5m \\-j 30\\fR\nStart immediately, jiggle every 30 seconds after 5 idle minutes.\n")
	b.WriteString(".TP\n\\fB" + name + " \\-\\-headless \\-c 18:00\\fR\nRun without the TUI until 6:00 PM.\n")
	return b.String()
}

func roffEscape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	return strings.ReplaceAll(s, "-", "\\-")
}
