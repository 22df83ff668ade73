package pipeline

import (
	"strings"

	"github.com/matzehuels/tagcloud/pkg/words"
)

// Extract counts the words of opts.Text, most frequent first.
// An empty result is not an error; it produces an empty cloud.
func Extract(opts Options) ([]words.Frequency, error) {
	return words.Extract(strings.NewReader(opts.Text), opts.WordOptions())
}
