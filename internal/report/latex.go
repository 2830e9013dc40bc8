package report

import (
	"fmt"
	"io"
	"strings"
)

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// WriteLaTeX renders t as a booktabs tabular headed by the display names.
// With standalone set the table is wrapped in a compilable document.
func WriteLaTeX(w io.Writer, t *Table, standalone bool) error {
	var b strings.Builder
	if standalone {
		b.WriteString("\\documentclass{article}\n")
		b.WriteString("\\usepackage{booktabs}\n")
		b.WriteString("\\begin{document}\n")
	}
	fmt.Fprintf(&b, "\\begin{tabular}{l%s}\n", strings.Repeat("r", len(t.Columns)))
	b.WriteString("\\toprule\n")

	header := []string{"Benchmark"}
	for _, h := range t.Headers {
		header = append(header, latexEscaper.Replace(h))
	}
	fmt.Fprintf(&b, "%s \\\\\n", strings.Join(header, " & "))
	b.WriteString("\\midrule\n")

	for _, row := range t.Rows {
		line := []string{latexEscaper.Replace(row.TestCase)}
		for _, c := range row.Cells {
			line = append(line, c.String())
		}
		fmt.Fprintf(&b, "%s \\\\\n", strings.Join(line, " & "))
	}

	b.WriteString("\\bottomrule\n")
	b.WriteString("\\end{tabular}\n")
	if standalone {
		b.WriteString("\\end{document}\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
