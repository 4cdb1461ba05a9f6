package usecase

import (
	"html"
	"regexp"
	"strings"
)

// markupPattern detects rich text authored upstream (an opening tag). Such
// values are trusted and passed through verbatim.
var markupPattern = regexp.MustCompile(`(?i)<\s*[a-z][a-z0-9]*(\s[^>]*)?>`)

// escapeHTML escapes the five HTML metacharacters unless the value already
// contains markup. Total: any input yields a string.
func escapeHTML(s string) string {
	if markupPattern.MatchString(s) {
		return s
	}
	return html.EscapeString(s)
}

// latexSpecials maps characters with special meaning in LaTeX to safe
// command sequences.
var latexSpecials = map[rune]string{
	'\\': `\textbackslash{}`,
	'{':  `\{`,
	'}':  `\}`,
	'$':  `\$`,
	'&':  `\&`,
	'%':  `\%`,
	'#':  `\#`,
	'_':  `\_`,
	'^':  `\textasciicircum{}`,
	'~':  `\textasciitilde{}`,
	'|':  `\textbar{}`,
	'<':  `\textless{}`,
	'>':  `\textgreater{}`,
	'[':  `{[}`,
	']':  `{]}`,
}

// latexSymbols transliterates Unicode symbols common in faculty CV text
// (Greek letters, typographic punctuation, math symbols) to named macros.
var latexSymbols = map[rune]string{
	'α': `$\alpha$`,
	'β': `$\beta$`,
	'γ': `$\gamma$`,
	'δ': `$\delta$`,
	'ε': `$\varepsilon$`,
	'θ': `$\theta$`,
	'κ': `$\kappa$`,
	'λ': `$\lambda$`,
	'μ': `$\mu$`,
	'π': `$\pi$`,
	'σ': `$\sigma$`,
	'τ': `$\tau$`,
	'φ': `$\phi$`,
	'χ': `$\chi$`,
	'ω': `$\omega$`,
	'Δ': `$\Delta$`,
	'Σ': `$\Sigma$`,
	'Ω': `$\Omega$`,
	'–': `--`,
	'—': `---`,
	'‘': "`",
	'’': `'`,
	'“': "``",
	'”': `''`,
	'…': `\ldots{}`,
	'•': `\textbullet{}`,
	'·': `$\cdot$`,
	'±': `$\pm$`,
	'×': `$\times$`,
	'÷': `$\div$`,
	'≤': `$\leq$`,
	'≥': `$\geq$`,
	'≠': `$\neq$`,
	'≈': `$\approx$`,
	'°': `$^{\circ}$`,
	'½': `$\frac{1}{2}$`,
	'©': `\textcopyright{}`,
	'®': `\textregistered{}`,
	'™': `\texttrademark{}`,
	0xA0: `~`, // non-breaking space
}

// breakAfter is the punctuation set that gets a zero-width break
// opportunity appended, so long tokens (DOIs, URLs, compound course codes)
// wrap inside narrow table cells without hyphenation.
const breakAfter = "./,;:)-"

// escapeLaTeX escapes LaTeX special characters, transliterates known
// Unicode symbols, and inserts break opportunities after punctuation.
// Total: any input yields a string.
func escapeLaTeX(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case latexSpecials[r] != "":
			b.WriteString(latexSpecials[r])
		case latexSymbols[r] != "":
			b.WriteString(latexSymbols[r])
		default:
			b.WriteRune(r)
		}
		if strings.ContainsRune(breakAfter, r) {
			// no break needed when whitespace already follows
			if i+1 < len(runes) && runes[i+1] != ' ' && runes[i+1] != '\t' {
				b.WriteString(`\allowbreak{}`)
			}
		}
	}
	return b.String()
}
