/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package quiz

import "fmt"

// Team is one of the three fixed teams. The zero value means a tile has
// not been awarded.
type Team uint8

const (
	NoTeam Team = iota
	TeamOne
	TeamTwo
	TeamThree
)

// Teams lists every team in display order.
var Teams = []Team{TeamOne, TeamTwo, TeamThree}

const neutralColor = "#242424"

var teamNames = [...]string{
	NoTeam:    "",
	TeamOne:   "team-one",
	TeamTwo:   "team-two",
	TeamThree: "team-three",
}

var teamColors = [...]string{
	NoTeam:    neutralColor,
	TeamOne:   "#1971c2",
	TeamTwo:   "#c92a2a",
	TeamThree: "#2b8a3e",
}

// ParseTeam maps a wire identifier to a Team. Anything outside the fixed
// set is rejected.
func ParseTeam(s string) (Team, error) {
	for _, t := range Teams {
		if teamNames[t] == s {
			return t, nil
		}
	}
	return NoTeam, fmt.Errorf("%w: %q", ErrUnknownTeam, s)
}

func (t Team) valid() bool {
	return t >= TeamOne && t <= TeamThree
}

func (t Team) String() string {
	if int(t) >= len(teamNames) {
		return fmt.Sprintf("team(%d)", uint8(t))
	}
	return teamNames[t]
}

// Color is the tile background for tiles awarded to t.
func (t Team) Color() string {
	if int(t) >= len(teamColors) {
		return neutralColor
	}
	return teamColors[t]
}

func (t Team) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Team) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*t = NoTeam
		return nil
	}
	parsed, err := ParseTeam(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
