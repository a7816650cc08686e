// internal/cli/help.go
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/law-makers/plexport/internal/ui"
	"github.com/spf13/cobra"
)

// customHelpFunc provides a colorized help output
func customHelpFunc(cmd *cobra.Command, args []string) {
	w := os.Stdout

	fmt.Fprintf(w, "\n%s%s%s\n", ui.ColorBold+ui.ColorCyan, strings.ToUpper(cmd.Name()), ui.ColorReset)
	if cmd.Short != "" {
		fmt.Fprintf(w, "%s\n", cmd.Short)
	}
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintf(w, "\n%s\n", wrapText(cmd.Long, 80))
	}

	printUsage(w, cmd)

	if cmd.HasExample() {
		fmt.Fprintf(w, "\n%sExamples%s\n", ui.ColorBold+ui.ColorWhite, ui.ColorReset)
		lastWasCommand := false
		for _, example := range strings.Split(cmd.Example, "\n") {
			trimmed := strings.TrimSpace(example)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, "#") {
				if lastWasCommand {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "  %s%s%s\n", ui.ColorDim, trimmed, ui.ColorReset)
				lastWasCommand = false
			} else {
				fmt.Fprintf(w, "  %s$ %s%s\n", ui.ColorGreen, strings.TrimPrefix(trimmed, "$ "), ui.ColorReset)
				lastWasCommand = true
			}
		}
	}

	printCommands(w, cmd)

	if cmd.HasAvailableLocalFlags() {
		fmt.Fprintf(w, "\n%sFlags%s\n", ui.ColorBold+ui.ColorWhite, ui.ColorReset)
		printFlagsTo(w, cmd.LocalFlags().FlagUsages())
	}
	if cmd.HasAvailableInheritedFlags() {
		fmt.Fprintf(w, "\n%sGlobal Flags%s\n", ui.ColorBold+ui.ColorWhite, ui.ColorReset)
		printFlagsTo(w, cmd.InheritedFlags().FlagUsages())
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\n%sUse \"%s%s%s %s<command>%s %s--help%s\" for more information about a command.%s\n",
			ui.ColorDim,
			ui.ColorCyan, cmd.CommandPath(), ui.ColorReset+ui.ColorDim,
			ui.ColorYellow, ui.ColorReset+ui.ColorDim,
			ui.ColorGreen, ui.ColorReset+ui.ColorDim,
			ui.ColorReset)
	}
	fmt.Fprintln(w)
}

// customUsageFunc provides a colorized usage output
func customUsageFunc(cmd *cobra.Command) error {
	w := os.Stderr

	printUsage(w, cmd)
	printCommands(w, cmd)
	if cmd.HasAvailableLocalFlags() {
		fmt.Fprintf(w, "\n%sFlags%s\n", ui.ColorBold+ui.ColorWhite, ui.ColorReset)
		printFlagsTo(w, cmd.LocalFlags().FlagUsages())
	}

	fmt.Fprintf(w, "\n%sUse \"%s%s%s %s--help%s\" for more information.%s\n",
		ui.ColorDim,
		ui.ColorCyan, cmd.CommandPath(), ui.ColorReset+ui.ColorDim,
		ui.ColorGreen, ui.ColorReset+ui.ColorDim,
		ui.ColorReset)
	return nil
}

func printUsage(w io.Writer, cmd *cobra.Command) {
	fmt.Fprintf(w, "\n%sUsage%s\n", ui.ColorBold+ui.ColorWhite, ui.ColorReset)
	if cmd.Runnable() {
		fmt.Fprintf(w, "  %s%s%s\n", ui.ColorCyan, cmd.UseLine(), ui.ColorReset)
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "  %s%s%s %s<command>%s %s[flags]%s\n",
			ui.ColorCyan, cmd.CommandPath(), ui.ColorReset,
			ui.ColorYellow, ui.ColorReset,
			ui.ColorDim, ui.ColorReset)
	}
}

func printCommands(w io.Writer, cmd *cobra.Command) {
	if !cmd.HasAvailableSubCommands() {
		return
	}
	fmt.Fprintf(w, "\n%sCommands%s\n", ui.ColorBold+ui.ColorWhite, ui.ColorReset)

	maxLen := 0
	var available []*cobra.Command
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() && c.Name() != "help" {
			available = append(available, c)
			if len(c.Name()) > maxLen {
				maxLen = len(c.Name())
			}
		}
	}

	for _, c := range available {
		padding := strings.Repeat(" ", maxLen-len(c.Name())+2)
		fmt.Fprintf(w, "  %s%s%s%s%s%s%s\n",
			ui.ColorCyan, c.Name(), ui.ColorReset,
			padding,
			ui.ColorDim, c.Short, ui.ColorReset)
	}
}

// printFlagsTo prints flag usages with color formatting
func printFlagsTo(w io.Writer, flagUsages string) {
	lines := strings.Split(flagUsages, "\n")

	maxFlagLen := 28
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, "-") {
			flagPart := strings.TrimSpace(strings.SplitN(trimmed, "  ", 2)[0])
			if len(flagPart) > maxFlagLen {
				maxFlagLen = len(flagPart)
			}
		}
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		trimmed := strings.TrimLeft(line, " ")

		if !strings.HasPrefix(trimmed, "-") {
			// Continuation of the previous description
			fmt.Fprintf(w, "%s%s%s%s\n", strings.Repeat(" ", maxFlagLen+4), ui.ColorDim, trimmed, ui.ColorReset)
			continue
		}

		parts := strings.SplitN(trimmed, "  ", 2)
		if len(parts) != 2 {
			fmt.Fprintf(w, "  %s%s%s\n", ui.ColorGreen, trimmed, ui.ColorReset)
			continue
		}
		flagPart := strings.TrimSpace(parts[0])
		descPart := strings.TrimSpace(parts[1])
		fmt.Fprintf(w, "  %s%s%s%s%s%s%s\n",
			ui.ColorGreen, flagPart, ui.ColorReset,
			strings.Repeat(" ", maxFlagLen-len(flagPart)+2),
			ui.ColorDim, descPart, ui.ColorReset)
	}
}

// wrapText wraps text at the specified width while preserving paragraphs,
// intentional line breaks and list items
func wrapText(text string, width int) string {
	var paragraphs []string

	for _, para := range strings.Split(text, "\n\n") {
		var lines []string
		for _, line := range strings.Split(para, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
				lines = append(lines, trimmed)
				continue
			}

			var current strings.Builder
			for _, word := range strings.Fields(trimmed) {
				switch {
				case current.Len() == 0:
					current.WriteString(word)
				case current.Len()+1+len(word) <= width:
					current.WriteString(" ")
					current.WriteString(word)
				default:
					lines = append(lines, current.String())
					current.Reset()
					current.WriteString(word)
				}
			}
			if current.Len() > 0 {
				lines = append(lines, current.String())
			}
		}
		if len(lines) > 0 {
			paragraphs = append(paragraphs, strings.Join(lines, "\n"))
		}
	}

	return strings.Join(paragraphs, "\n\n")
}
