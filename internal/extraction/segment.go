package extraction

import (
	"strings"
)

type sectionState int

const (
	outsideItems sectionState = iota
	insideItems
)

func (s sectionState) String() string {
	if s == insideItems {
		return "insideItems"
	}
	return "outsideItems"
}

// Segmenter forwards the lines of the items section to a Tokenizer.
type Segmenter struct {
	layout  *compiledLayout
	state   sectionState
	entered bool
}

func newSegmenter(layout *compiledLayout) *Segmenter {
	return &Segmenter{layout: layout}
}

// Walk runs the state machine over lines. Marker lines are consumed, never
// forwarded. The current item is closed when the section ends, explicitly or
// at end of input.
func (s *Segmenter) Walk(lines []string, tok *Tokenizer) {
	for _, line := range lines {
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, s.layout.sectionStart):
			s.state = insideItems
			s.entered = true
		case strings.Contains(lower, s.layout.sectionEnd):
			if s.state == insideItems {
				tok.Close()
			}
			s.state = outsideItems
		case s.state == insideItems:
			tok.Feed(line)
		}
	}
	if s.state == insideItems {
		tok.Close()
		s.state = outsideItems
	}
}

// Entered reports whether a start marker was ever seen.
func (s *Segmenter) Entered() bool {
	return s.entered
}
