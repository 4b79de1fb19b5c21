package persona

import "fmt"

// Level is an ordinal technical proficiency scale.
type Level int

const (
	LevelBeginner Level = iota
	LevelIntermediate
	LevelAdvanced
	LevelExpert
)

// LevelSpan is the distance between the lowest and highest levels, used to
// normalize level differences into [0, 1].
const LevelSpan = float64(LevelExpert - LevelBeginner)

var levelNames = [...]string{"beginner", "intermediate", "advanced", "expert"}

func (l Level) String() string {
	if l < LevelBeginner || l > LevelExpert {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel maps a lexicon level name to its ordinal.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil
		}
	}
	return LevelIntermediate, fmt.Errorf("unknown technical level %q", s)
}
