package models

import (
	"math"
	"time"
)

// MacroSplit is the share of total macro grams held by each macronutrient,
// rounded to whole percent.
type MacroSplit struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

// DailyStats aggregates the entries logged on a single calendar day.
type DailyStats struct {
	Day      string     `json:"day"` // YYYY-MM-DD
	Count    int        `json:"count"`
	Calories float64    `json:"calories"`
	Protein  float64    `json:"protein"`
	Carbs    float64    `json:"carbs"`
	Fat      float64    `json:"fat"`
	Split    MacroSplit `json:"split"`
}

// Summarize totals the entries whose date falls on the calendar day of now in loc.
func Summarize(entries []Entry, now time.Time, loc *time.Location) DailyStats {
	stats := DailyStats{Day: now.In(loc).Format("2006-01-02")}
	for _, e := range entries {
		if !SameDay(e.Date, now, loc) {
			continue
		}
		stats.Count++
		stats.Calories += e.Calories
		stats.Protein += e.Protein
		stats.Carbs += e.Carbs
		stats.Fat += e.Fat
	}
	stats.Split = Split(stats.Protein, stats.Carbs, stats.Fat)
	return stats
}

// Split computes macro percentages. All zero when there are no macro grams.
func Split(protein, carbs, fat float64) MacroSplit {
	total := protein + carbs + fat
	if total <= 0 {
		return MacroSplit{}
	}
	pct := func(v float64) int {
		return int(math.Round(v / total * 100))
	}
	return MacroSplit{Protein: pct(protein), Carbs: pct(carbs), Fat: pct(fat)}
}

// SameDay reports whether a and b fall on the same calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
