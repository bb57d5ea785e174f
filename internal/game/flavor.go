// internal/game/flavor.go
//
// Canned UI flavor lines used when the judge supplies no ui_answer.

package game

import "strings"

var successLines = []string{
	"Nice one.",
	"That works.",
	"Clean answer.",
	"Perfect fit.",
	"Good pick.",
	"You nailed it.",
	"Sharp move.",
	"Solid call.",
	"On target.",
	"Keep it coming.",
	"That passes.",
	"Good instincts.",
	"You got this.",
	"Clutch answer.",
	"Accurate.",
	"Very good.",
	"Right on.",
	"Great call.",
	"Locked in.",
	"Strong round.",
}

var roastLines = []string{
	"That guess was wild.",
	"Scale says nope.",
	"Did you even lift that?",
	"Bold. Incorrect, but bold.",
	"That item and this range are enemies.",
	"Your scale privileges are under review.",
	"You just fed chaos to the machine.",
	"Nice try, wrong planet.",
	"That answer tripped over itself.",
	"Range missed by a mile.",
	"I respect the confidence, not the result.",
	"That was a certified miss.",
	"Try again, but with gravity this time.",
	"Nope. The dial cried.",
	"You almost invented new physics.",
	"That answer needs a map.",
	"I asked for accurate, not adventurous.",
	"The scale is disappointed.",
	"That was aggressively wrong.",
	"A swing and a miss.",
	"Close... if we ignore reality.",
	"The range called security.",
	"This is why we test things.",
	"Your guess needs calibration.",
	"You gave the dial trust issues.",
	"Not even the mascot can defend that.",
	"That object said no thanks.",
	"Math did not agree.",
	"You rushed that one, huh?",
	"Respectfully: absolutely not.",
	"That was chaos in text form.",
	"You aimed. Somewhere.",
	"This scale has standards.",
	"Nope. Try less drama, more logic.",
	"That call was heavier than your odds.",
	"I admire the imagination.",
	"The answer was spicy, not correct.",
	"This guess is under investigation.",
	"That range remained undefeated.",
	"Reset and swing smarter.",
}

// limitTwoLines trims a UI answer to its first two non-empty lines.
func limitTwoLines(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == 2 {
			break
		}
	}
	if len(lines) == 0 {
		return "..."
	}
	return strings.Join(lines, "\n")
}
