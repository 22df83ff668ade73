package words

import (
	"bufio"
	_ "embed"
	"io"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed stopwords_en.txt
var stopWordsEN string

// DefaultStopWords is the built-in English stop-word set.
var DefaultStopWords = ParseStopWords(strings.NewReader(stopWordsEN))

// Frequency is a word and the number of times it occurs.
type Frequency struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Options controls filtering and truncation.
type Options struct {
	// MinLength drops tokens with fewer runes. Zero keeps everything.
	MinLength int

	// MaxWords keeps only the most frequent words. Zero keeps all.
	MaxWords int

	// StopWords are dropped after case folding. Nil means DefaultStopWords;
	// an empty non-nil set disables filtering.
	StopWords map[string]struct{}

	// KeepNumbers keeps tokens made only of digits.
	KeepNumbers bool
}

func (o Options) stopWords() map[string]struct{} {
	if o.StopWords == nil {
		return DefaultStopWords
	}
	return o.StopWords
}

// Tokenize splits text into lower-cased tokens.
func Tokenize(text string) []string {
	caser := cases.Lower(language.Und)
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !isWordRune(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'-")
		if f == "" {
			continue
		}
		tokens = append(tokens, caser.String(f))
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-'
}

// Count filters tokens and returns their frequencies, most frequent first.
func Count(tokens []string, opts Options) []Frequency {
	stop := opts.stopWords()
	counts := make(map[string]int)
	for _, tok := range tokens {
		if !keep(tok, stop, opts) {
			continue
		}
		counts[tok]++
	}

	freqs := make([]Frequency, 0, len(counts))
	for w, n := range counts {
		freqs = append(freqs, Frequency{Word: w, Count: n})
	}
	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].Count != freqs[j].Count {
			return freqs[i].Count > freqs[j].Count
		}
		return freqs[i].Word < freqs[j].Word
	})

	if opts.MaxWords > 0 && len(freqs) > opts.MaxWords {
		freqs = freqs[:opts.MaxWords]
	}
	return freqs
}

func keep(tok string, stop map[string]struct{}, opts Options) bool {
	if opts.MinLength > 0 && len([]rune(tok)) < opts.MinLength {
		return false
	}
	if _, ok := stop[tok]; ok {
		return false
	}
	if !opts.KeepNumbers && strings.IndexFunc(tok, unicode.IsLetter) < 0 {
		return false
	}
	return true
}

// Extract reads all of r and returns its word frequencies.
func Extract(r io.Reader, opts Options) ([]Frequency, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Count(Tokenize(string(data)), opts), nil
}

// ParseStopWords reads one word per line. Blank lines and lines starting with
// '#' are ignored; words are case folded.
func ParseStopWords(r io.Reader) map[string]struct{} {
	caser := cases.Lower(language.Und)
	set := make(map[string]struct{})
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[caser.String(line)] = struct{}{}
	}
	return set
}

// MergeStopWords returns the union of the given sets.
func MergeStopWords(sets ...map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for _, s := range sets {
		for w := range s {
			out[w] = struct{}{}
		}
	}
	return out
}
