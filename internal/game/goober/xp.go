package goober

// MaxLevel caps progression; XP gained at the cap is retained but never
// triggers another level.
const MaxLevel = 67

// XPTracker tracks accumulated experience and the current level. The
// threshold curve is quadratic, so higher levels take noticeably longer.
type XPTracker struct {
	Level int
	XP    int
}

// NewXPTracker starts a tracker at the given level with zero progress.
//
// Postcondition: Level is clamped to [1, MaxLevel].
func NewXPTracker(level int) XPTracker {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return XPTracker{Level: level}
}

// XPThreshold returns the XP required to complete the given level:
// level^2 + level + 100.
func XPThreshold(level int) int {
	return level*level + level + 100
}

// DefeatYield returns the XP a defeated instance of the given level awards:
// one third of its own current threshold, so roughly three equal-level
// defeats produce one level.
func DefeatYield(level int) int {
	return XPThreshold(level) / 3
}

// Add grants XP and processes level-ups, carrying overflow XP across
// multiple levels in one call.
//
// Postcondition: returns true iff at least one level was gained; Level never
// exceeds MaxLevel.
func (t *XPTracker) Add(amount int) bool {
	leveled := false
	t.XP += amount
	for t.Level < MaxLevel && t.XP >= XPThreshold(t.Level) {
		t.XP -= XPThreshold(t.Level)
		t.Level++
		leveled = true
	}
	return leveled
}
