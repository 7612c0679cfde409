package feedback

import "strings"

// SectionKind tags a feedback section with its known category.
type SectionKind string

const (
	KindATS       SectionKind = "ATS"
	KindTone      SectionKind = "tone"
	KindContent   SectionKind = "content"
	KindStructure SectionKind = "structure"
	KindSkills    SectionKind = "skills"
)

// Tip is one piece of feedback with its explanation.
type Tip struct {
	Tip         string `json:"tip"`
	Explanation string `json:"explanation"`
}

// Section is a tagged feedback section carrying an ordered list of tips.
type Section struct {
	Kind SectionKind `json:"kind"`
	Tips []Tip       `json:"tips"`
}

var headings = map[SectionKind]string{
	KindATS:       "ATS Compatibility",
	KindTone:      "Tone & Style",
	KindContent:   "Content",
	KindStructure: "Structure",
	KindSkills:    "Skills",
}

// Heading returns the display heading for a section kind. Unknown kinds fold
// to their raw tag so composition stays total.
func (k SectionKind) Heading() string {
	if h, ok := headings[k]; ok {
		return h
	}
	if trimmed := strings.TrimSpace(string(k)); trimmed != "" {
		return trimmed
	}
	return "Feedback"
}

// ComposeText flattens feedback sections into the free text sent to the
// recommendation service. Total over any input: empty sections and unknown
// kinds contribute their heading or nothing, never an error.
func ComposeText(sections []Section) string {
	var b strings.Builder
	for _, section := range sections {
		if len(section.Tips) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(section.Kind.Heading())
		b.WriteString(":\n")
		for _, tip := range section.Tips {
			b.WriteString("- ")
			b.WriteString(strings.TrimSpace(tip.Tip))
			if expl := strings.TrimSpace(tip.Explanation); expl != "" {
				b.WriteString(" (")
				b.WriteString(expl)
				b.WriteString(")")
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String())
}
