package format

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dhamidi/jack/jack/parser"
)

// WriteTokens lists tokens one per line as "start-end<TAB>kind[<TAB>value]".
func WriteTokens(w io.Writer, tokens []parser.Token) error {
	bw := bufio.NewWriter(w)
	for _, tok := range tokens {
		fmt.Fprintf(bw, "%v-%v\t%v", tok.Start, tok.End, tok.Kind)
		if tok.Value != "" {
			fmt.Fprintf(bw, "\t%q", tok.Value)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
