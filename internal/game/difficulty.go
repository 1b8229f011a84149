package game

import "strings"

type Difficulty struct {
	Name  string
	Msd   string
	NKeys uint8
}

const (
	Easy   = "easy"
	Normal = "normal"
	Hard   = "hard"
)

// Difficulties in the order a catalog song lists them
var Difficulties = []string{Easy, Normal, Hard}

var NKeyMap = map[string]uint8{
	"dance-single": 4,
	"dance-solo":   6,
	"dance-double": 8,
}

func (d Difficulty) Is(name string) bool {
	return strings.EqualFold(strings.TrimSpace(d.Name), strings.TrimSpace(name))
}
