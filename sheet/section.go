package sheet

import "strings"

// Section identifies which of the six logical tables a row belongs to.
// The sheet multiplexes all of them into one flat row sequence.
type Section int

const (
	SectionNone Section = iota
	SectionWorks
	SectionScenes
	SectionVideos
	SectionThumbnails
	SectionAudio
	SectionCredits
)

var sectionNames = map[string]Section{
	"WORKS":      SectionWorks,
	"SCENES":     SectionScenes,
	"VIDEOS":     SectionVideos,
	"THUMBNAILS": SectionThumbnails,
	"AUDIO":      SectionAudio,
	"CREDITS":    SectionCredits,
}

func (s Section) String() string {
	for name, sec := range sectionNames {
		if sec == s {
			return name
		}
	}
	return "NONE"
}

// transition inspects a row's first two cells and returns the section in
// effect after the row, plus whether the row is a header row (headers
// carry no data and are skipped by the dispatcher).
//
// Two layouts appear in the wild: one header row followed by bare data
// rows, and a "combined" layout where every data row repeats the section
// name in column 0. A recognized section name with "ID" in the second
// cell is an explicit header; a recognized name with a purely numeric
// second cell re-enters that section implicitly.
func transition(current Section, row []string) (Section, bool) {
	name, ok := sectionNames[strings.ToUpper(strings.TrimSpace(cell(row, 0)))]
	if !ok {
		return current, false
	}

	second := strings.TrimSpace(cell(row, 1))
	if strings.EqualFold(second, "ID") {
		return name, true
	}
	if isDigits(second) {
		return name, false
	}
	return current, false
}

// dataSection decides which section a row's data belongs to, or
// SectionNone when the row should be ignored. Rows naming a section other
// than the live one guard against stray or mismatched rows; rows with a
// blank first cell continue whatever section was most recently
// established.
func dataSection(current Section, row []string) Section {
	first := strings.ToUpper(strings.TrimSpace(cell(row, 0)))
	if first == "" {
		return current
	}

	name, ok := sectionNames[first]
	if !ok || name != current {
		return SectionNone
	}
	return current
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
