package game

type Judgement uint8

const (
	None Judgement = iota
	Perfect
	Good
	Miss
)

var judgementNames = [...]string{
	None:    "-",
	Perfect: "PERFECT",
	Good:    "GOOD",
	Miss:    "MISS",
}

func (j Judgement) String() string {
	if int(j) < len(judgementNames) {
		return judgementNames[j]
	}
	return "?"
}

// Hit reports whether the judgement resolved a note with a key press
func (j Judgement) Hit() bool {
	return j == Perfect || j == Good
}
