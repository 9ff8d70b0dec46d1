package services

import (
	"math"
	"time"
)

// LevelThresholds holds the minimum XP of levels 1 through 5
var LevelThresholds = [...]int{0, 100, 300, 600, 1000}

const MaxLevel = len(LevelThresholds)

// TotalXP sums catalog XP over the earned badge ids. Unknown ids count 0.
func TotalXP(catalog *Catalog, earned map[string]time.Time) int {
	total := 0
	for id := range earned {
		if def, ok := catalog.Get(id); ok {
			total += def.XP
		}
	}
	return total
}

func Level(xp int) int {
	switch {
	case xp >= 1000:
		return 5
	case xp >= 600:
		return 4
	case xp >= 300:
		return 3
	case xp >= 100:
		return 2
	}
	return 1
}

// Progress is the percentage travelled between the current level's
// threshold and the next one.
func Progress(xp, level int) int {
	if level >= MaxLevel {
		return 100
	}
	if level < 1 {
		level = 1
	}
	lower := LevelThresholds[level-1]
	upper := LevelThresholds[level]
	pct := int(math.Floor(float64(xp-lower)*100/float64(upper-lower) + 0.5))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// XPForNextLevel is the XP still missing to reach the next level, 0 at max
func XPForNextLevel(xp int) int {
	level := Level(xp)
	if level >= MaxLevel {
		return 0
	}
	return LevelThresholds[level] - xp
}

type LevelSummary struct {
	TotalXP        int `json:"totalXP"`
	Level          int `json:"level"`
	Progress       int `json:"progressPercentage"`
	XPForNextLevel int `json:"xpForNextLevel"`
}

func Summarize(catalog *Catalog, earned map[string]time.Time) LevelSummary {
	xp := TotalXP(catalog, earned)
	level := Level(xp)
	return LevelSummary{
		TotalXP:        xp,
		Level:          level,
		Progress:       Progress(xp, level),
		XPForNextLevel: XPForNextLevel(xp),
	}
}
