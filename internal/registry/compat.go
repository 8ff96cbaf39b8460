package registry

import "strings"

// compatibility scores a donor/recipient blood type pair. Unknown types
// score 50 so they still surface for manual review.
func compatibility(donor, recipient string) (float64, bool) {
	dABO, dPos, dOK := splitBloodType(donor)
	rABO, rPos, rOK := splitBloodType(recipient)
	if !dOK || !rOK {
		return 50, true
	}
	if !aboCompatible(dABO, rABO) || (dPos && !rPos) {
		return 0, false
	}
	if dABO == rABO && dPos == rPos {
		return 100, true
	}
	return 80, true
}

func matchNote(donor, recipient string) string {
	if donor == "" || recipient == "" {
		return "Blood type missing on one side; verify manually."
	}
	if donor == recipient {
		return "Identical blood type."
	}
	return "Compatible blood types."
}

func splitBloodType(bt string) (abo string, positive, ok bool) {
	abo, rh, found := strings.Cut(strings.ToUpper(bt), "_")
	if !found {
		return "", false, false
	}
	switch rh {
	case "POSITIVE":
		positive = true
	case "NEGATIVE":
	default:
		return "", false, false
	}
	switch abo {
	case "A", "B", "AB", "O":
		return abo, positive, true
	default:
		return "", false, false
	}
}

func aboCompatible(donor, recipient string) bool {
	switch donor {
	case "O":
		return true
	case "A", "B":
		return recipient == donor || recipient == "AB"
	case "AB":
		return recipient == "AB"
	default:
		return false
	}
}
