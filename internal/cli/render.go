package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags  cloudFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "render <input.txt|->",
		Short: "Render a tag cloud image from a text file",
		Long: `Render counts the words of a text file (or stdin with "-"), lays them out
around the image centre and writes the result in one or more formats.

With a single format, -o names the output file. With several formats, -o is a
base path and each format gets its own extension.`,
		Example: `  tagcloud render speech.txt
  tagcloud render speech.txt -f png,svg -o out/speech
  cat notes.md | tagcloud render - --font gobold --palette "#264653,#e76f51"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], output, &flags)
		},
	}

	flags.registerRenderFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output string, flags *cloudFlags) error {
	text, err := readInput(ctx, input)
	if err != nil {
		return err
	}
	opts, err := flags.options(ctx, text)
	if err != nil {
		return err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, "Building tag cloud...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	paths := outputPaths(input, output, opts.Formats)
	for _, format := range opts.Formats {
		if err := writeOutput(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Rendered %d words", result.Stats.Placed))

	printSuccess("Rendered tag cloud")
	printStats(result.Stats, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	if n := len(result.Cloud.Skipped); n > 0 {
		printWarning("%d word(s) could not be sized and were skipped: %s", n, strings.Join(result.Cloud.Skipped, ", "))
	}
	if result.Stats.Placed == 0 {
		printWarning("No words left after filtering")
		printNextStep("Inspect the word list", "tagcloud words "+input)
	}
	return nil
}

// outputPaths maps each format to its output file.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}

	base := output
	if base == "" {
		base = "tagcloud"
		if input != "-" {
			base = filepath.Base(input)
		}
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
