// Package words turns free text into a ranked word-frequency list.
//
// Text is split into tokens on anything that is not a letter, digit, apostrophe
// or hyphen, folded to lower case with [golang.org/x/text/cases], filtered by
// length and a stop-word list, and counted:
//
//	freqs, err := words.Extract(f, words.Options{MinLength: 3, MaxWords: 100})
//	for _, fr := range freqs {
//	    fmt.Println(fr.Word, fr.Count)
//	}
//
// The result is ordered by descending count and then alphabetically, which is
// the order the layout engine places words in.
package words
