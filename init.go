package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const (
	sentinelStart = "<!-- laibrary:start -->"
	sentinelEnd   = "<!-- laibrary:end -->"
)

// newInitCmd builds the `laibrary init` subcommand, which writes (or updates)
// a laibrary usage section in a CLAUDE.md file.
func newInitCmd(stdout, stderr io.Writer) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init [path-to-CLAUDE.md]",
		Short: "Write a laibrary usage section to CLAUDE.md",
		Long: `Write a laibrary usage section to a CLAUDE.md file. The section is wrapped in
sentinel comments so it can be updated in place on subsequent runs without
touching surrounding content. Creates the file if it does not exist.

path-to-CLAUDE.md defaults to ./CLAUDE.md.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args, dryRun, stdout, stderr)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	return cmd
}

func runInit(args []string, dryRun bool, stdout, stderr io.Writer) error {
	section := generateSection()

	// --dry-run with no path: just print the section itself.
	if dryRun && len(args) == 0 {
		_, _ = fmt.Fprintln(stdout, section)
		return nil
	}

	path := "CLAUDE.md"
	if len(args) > 0 {
		path = args[0]
	}

	existing, _ := os.ReadFile(path)
	updated := applySection(string(existing), section)

	if dryRun {
		_, _ = fmt.Fprint(stdout, updated)
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote laibrary section to %s\n", path)
	return nil
}

// generateSection returns the full sentinel-wrapped laibrary documentation block.
func generateSection() string {
	body := `## laibrary: Dependency API Reference

Run ` + "`laibrary`" + ` via the Bash tool before writing code against a library
dependency you do not know well. It prints the library's README and every
public item, grouped by the path it is imported from, so you do not have to
guess at signatures.

**Availability:** Check with ` + "`laibrary --version`" + ` first; skip gracefully if
not found.

**Run it:**
` + "```" + `bash
laibrary ~/.cargo/registry/src/*/serde-1.0.210   # a Rust crate
laibrary                                         # the library in the current directory
laibrary --format toon /path/to/crate            # compact signature index
laibrary -o .laibrary/serde.xml /path/to/crate   # write to a file
laibrary --cache .laibrary-cache /path/to/crate  # cache output (fast on repeat runs)
` + "```" + `

**Caching:** Use ` + "`--cache <file>`" + ` to skip re-parsing while the sources are
unchanged. Add the cache file to ` + "`.gitignore`" + `. A conventional path is
` + "`.laibrary-cache`" + `.

**All flags:** ` + "`laibrary --help`" + `

**How to use the output:**

1. **Import from the namespace shown.** Each ` + "`<namespace>`" + ` is a path items can be
   imported from. An item re-exported elsewhere appears under each path.

2. **Prefer the shortest namespace.** Crates usually re-export their main types at
   the root; import from there.

3. **Read the ` + "`<documentation>`" + ` block first** for usage examples and feature flags.`

	return sentinelStart + "\n" + body + "\n" + sentinelEnd
}

// applySection returns content with section in place of its laibrary block.
// A block missing its end sentinel extends to the end of content. Without a
// block, section is appended after a blank line.
func applySection(content, section string) string {
	before, rest, found := strings.Cut(content, sentinelStart)
	if !found {
		if content == "" {
			return section + "\n"
		}
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		return content + "\n" + section + "\n"
	}
	if _, after, closed := strings.Cut(rest, sentinelEnd); closed {
		return before + section + after
	}
	return before + section + "\n"
}
