package internal

import (
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// ToCtyList converts vals to a list of strings. Empty and nil slices give an
// empty list.
func ToCtyList(vals []string) cty.Value {
	if len(vals) == 0 {
		return cty.ListValEmpty(cty.String)
	}

	valSlice := make([]cty.Value, len(vals))
	for i := range vals {
		valSlice[i] = cty.StringVal(vals[i])
	}

	return cty.ListVal(valSlice)
}

// CreateHeredoc renders text as a heredoc expression. A marker starting with
// "-" produces an indented heredoc with one token per line. When
// escapeSequences is set, ${ and %{ are escaped so script bodies survive
// Terraform's template interpolation.
func CreateHeredoc(text string, heredocMarker string, escapeSequences bool) hclwrite.Tokens {
	if escapeSequences {
		text = strings.ReplaceAll(text, "${", "$${")
		text = strings.ReplaceAll(text, "%{", "%%{")
	}

	// the closing marker always gets its own line
	text = strings.TrimSuffix(text, "\n")

	newline := &hclwrite.Token{
		Type:  hclsyntax.TokenNewline,
		Bytes: []byte{'\n'},
	}

	tokens := hclwrite.Tokens{
		{
			Type:  hclsyntax.TokenOHeredoc,
			Bytes: []byte("<<" + heredocMarker),
		},
	}

	if strings.HasPrefix(heredocMarker, "-") {
		tokens = append(tokens, newline)
		for _, line := range strings.Split(text, "\n") {
			tokens = append(tokens, &hclwrite.Token{
				Type:  hclsyntax.TokenQuotedLit,
				Bytes: []byte(line),
			}, newline)
		}
	} else {
		tokens = append(tokens, &hclwrite.Token{
			Type:  hclsyntax.TokenQuotedLit,
			Bytes: []byte("\n" + text + "\n"),
		})
	}

	tokens = append(tokens, &hclwrite.Token{
		Type:  hclsyntax.TokenCHeredoc,
		Bytes: []byte(strings.TrimPrefix(heredocMarker, "-")),
	})

	return tokens
}
