package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Difficulty is a 1..5 rating. The completion API sometimes emits it as a
// number, sometimes as a free-text label ("Intermediate", "3/5"); decoding
// repairs either form deterministically at the trust boundary.
type Difficulty int

// MarshalJSON always emits the numeric form.
func (d Difficulty) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(d))
}

// UnmarshalJSON accepts a JSON number or a string label.
func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*d = clampDifficulty(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Unrecognized shape; repair to the midpoint rather than failing
		// the whole payload.
		*d = 3
		return nil
	}

	*d = parseDifficultyLabel(s)
	return nil
}

func clampDifficulty(n int) Difficulty {
	if n < 1 {
		return 1
	}
	if n > 5 {
		return 5
	}
	return Difficulty(n)
}

// parseDifficultyLabel maps free-text difficulty to the 1..5 scale. A leading
// digit wins ("3/5" -> 3); otherwise common labels are recognized.
func parseDifficultyLabel(s string) Difficulty {
	s = strings.TrimSpace(s)
	if s == "" {
		return 3
	}

	digits := s
	for i, r := range s {
		if r < '0' || r > '9' {
			digits = s[:i]
			break
		}
	}
	if digits != "" {
		if n, err := strconv.Atoi(digits); err == nil {
			return clampDifficulty(n)
		}
	}

	switch strings.ToLower(s) {
	case "beginner", "easy", "beginner-friendly":
		return 1
	case "intermediate", "moderate", "medium":
		return 3
	case "advanced", "hard", "difficult":
		return 5
	default:
		return 3
	}
}
