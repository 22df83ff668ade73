package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tagcloud/pkg/render/sink"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  cloudFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout <input.txt|->",
		Short: "Compute a tag cloud layout and print it as JSON",
		Long: `Layout runs word extraction and placement without rendering. The JSON lists
every placed word with its rectangle, font size and count, and can be rendered
later by any tool.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, &flags)
		},
	}

	flags.registerLayoutFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, output string, flags *cloudFlags) error {
	text, err := readInput(ctx, input)
	if err != nil {
		return err
	}
	opts, err := flags.options(ctx, text)
	if err != nil {
		return err
	}
	opts.SetExtractDefaults()
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	freqs, err := runner.Extract(ctx, opts)
	if err != nil {
		return err
	}
	cloud, hit, err := runner.LayoutWithCacheInfo(ctx, freqs, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Placed %d of %d words (cached: %v)", len(cloud.Tags), len(freqs), hit))

	data, err := sink.RenderJSON(cloud)
	if err != nil {
		return err
	}
	if output == "" {
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}
	if err := writeOutput(output, data); err != nil {
		return err
	}
	printSuccess("Layout written")
	printFile(output)
	return nil
}
