package quiz

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseTeam(t *testing.T) {
	for _, team := range Teams {
		got, err := ParseTeam(team.String())
		if err != nil || got != team {
			t.Fatalf("ParseTeam(%q) = %v, %v", team.String(), got, err)
		}
	}

	for _, bad := range []string{"", "team-four", "Team-One", "1"} {
		if _, err := ParseTeam(bad); !errors.Is(err, ErrUnknownTeam) {
			t.Fatalf("ParseTeam(%q): expected ErrUnknownTeam, got %v", bad, err)
		}
	}
}

func TestTeamJSON(t *testing.T) {
	data, err := json.Marshal([]Team{NoTeam, TeamThree})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["","team-three"]` {
		t.Fatalf("marshal = %s", data)
	}

	var back []Team
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back[0] != NoTeam || back[1] != TeamThree {
		t.Fatalf("unmarshal = %v", back)
	}

	var bad Team
	if err := json.Unmarshal([]byte(`"team-nine"`), &bad); err == nil {
		t.Fatalf("expected error for unknown team")
	}
}
