package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// wordsCommand creates the words command.
func (c *CLI) wordsCommand() *cobra.Command {
	var (
		flags  cloudFlags
		pick   bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "words <input.txt|->",
		Short: "Show word frequencies or pick extra stop words",
		Long: `Words prints the frequency table the cloud would be built from.

With --pick, the list opens interactively: move with the arrow keys or j/k,
toggle a word with space and confirm with enter. The marked words are written
one per line, ready to pass to --stop-words.`,
		Example: `  tagcloud words speech.txt --max-words 20
  tagcloud words speech.txt --pick -o stop.txt && tagcloud render speech.txt --stop-words stop.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWords(cmd.Context(), args[0], pick, output, &flags)
		},
	}

	flags.registerWordFlags(cmd)
	cmd.Flags().BoolVar(&pick, "pick", false, "interactively pick words to exclude")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file for picked stop words (default stdout)")

	return cmd
}

func (c *CLI) runWords(ctx context.Context, input string, pick bool, output string, flags *cloudFlags) error {
	text, err := readInput(ctx, input)
	if err != nil {
		return err
	}
	opts, err := flags.options(ctx, text)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	freqs, err := runner.Extract(ctx, opts)
	if err != nil {
		return err
	}

	if !pick {
		printFrequencies(os.Stdout, freqs)
		return nil
	}
	if len(freqs) == 0 {
		printInfo("No words to pick from")
		return nil
	}

	picked, err := runPicker(ctx, freqs)
	if err != nil {
		return err
	}
	if picked == nil {
		printInfo("Cancelled")
		return nil
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := writeStopWords(w, picked); err != nil {
		return err
	}
	if output != "" {
		printSuccess("Saved %d stop word(s)", len(picked))
		printFile(output)
	}
	return nil
}

func writeStopWords(w io.Writer, list []string) error {
	if len(list) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w, strings.Join(list, "\n"))
	return err
}
