package termview

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Entry kinds produced by ParseDocument.
const (
	KindHeading   = "heading"
	KindParagraph = "paragraph"
	KindBullet    = "bullet"
	KindTag       = "tag"
)

// ParseDocument splits a plain-text document into entries. Lines starting
// with "# " are headings, lines starting with "- " are bullets, a line
// starting with "tags:" yields one inline tag per word, and runs of other
// non-blank lines form paragraphs.
func ParseDocument(r io.Reader) ([]Entry, error) {
	var (
		entries []Entry
		para    []string
		counts  = make(map[string]int)
	)
	add := func(kind, text string) {
		entries = append(entries, Entry{
			Key:  fmt.Sprintf("%s-%d", kind, counts[kind]),
			Kind: kind,
			Text: text,
		})
		counts[kind]++
	}
	flush := func() {
		if len(para) > 0 {
			add(KindParagraph, strings.Join(para, " "))
			para = para[:0]
		}
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "# "):
			flush()
			add(KindHeading, strings.TrimPrefix(line, "# "))
		case strings.HasPrefix(line, "- "):
			flush()
			add(KindBullet, "• "+strings.TrimPrefix(line, "- "))
		case strings.HasPrefix(line, "tags:"):
			flush()
			for _, tag := range strings.Fields(strings.TrimPrefix(line, "tags:")) {
				add(KindTag, tag)
			}
		default:
			para = append(para, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	flush()
	return entries, nil
}

// DefaultStyles returns the kind styles for ParseDocument entries.
func DefaultStyles() map[string]KindStyle {
	return map[string]KindStyle{
		KindHeading:   {Style: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)},
		KindParagraph: {Style: lipgloss.NewStyle().MarginBottom(1)},
		KindBullet:    {Style: lipgloss.NewStyle().MarginLeft(2)},
		KindTag: {
			Inline: true,
			Style:  lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Padding(0, 1).MarginRight(1),
		},
	}
}

// Apply installs every style on the view.
func Apply(v *View, styles map[string]KindStyle) {
	for kind, ks := range styles {
		v.SetKindStyle(kind, ks)
	}
}
