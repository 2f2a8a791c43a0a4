package workflow

// Section codes in processing order.
const (
	SectionReceive = "receive"
	SectionSort    = "sort"
	SectionWash    = "wash"
	SectionIron    = "iron"
)

// SectionDef describes a work section seeded for every shop.
type SectionDef struct {
	Code     string
	Name     string
	Position int
}

var defaultSections = []SectionDef{
	{Code: SectionReceive, Name: "Receiving", Position: 1},
	{Code: SectionSort, Name: "Sorting", Position: 2},
	{Code: SectionWash, Name: "Washing", Position: 3},
	{Code: SectionIron, Name: "Ironing", Position: 4},
}

// DefaultSections returns the canonical sections in order.
func DefaultSections() []SectionDef {
	out := make([]SectionDef, len(defaultSections))
	copy(out, defaultSections)
	return out
}

// PreviousSection returns the code of the section that precedes code, or "" for the first
// section and unknown codes.
func PreviousSection(code string) string {
	for i, s := range defaultSections {
		if s.Code == code {
			if i == 0 {
				return ""
			}
			return defaultSections[i-1].Code
		}
	}
	return ""
}
