// Package ranking scores players, estimates their draft likelihood, picks
// recommendations and keeps board ranks dense.
package ranking

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/draft-board/internal/domain/player"
)

const (
	weightPPG = 1.5
	weightRPG = 1.2
	weightAPG = 1.2
	weightFG  = 0.5
	weightFI  = 0.3

	// RecommendationLimit is the number of picks suggested at a time.
	RecommendationLimit = 2

	LabelFirstPick = "first_pick"
	LabelNextPick  = "next_pick"
)

type band struct {
	min         float64
	probability int
}

// bands are ordered highest first; the first lower bound that matches wins.
var bands = []band{
	{min: 40, probability: 95},
	{min: 35, probability: 85},
	{min: 30, probability: 75},
	{min: 25, probability: 65},
	{min: 20, probability: 55},
	{min: 15, probability: 45},
}

const floorProbability = 35

// Score returns the weighted stat line as a fixed-point string with two
// decimals. The raw sum is formatted once so halfway values follow the
// binary float, e.g. 0.015 becomes "0.01".
func Score(stats player.Stats) string {
	raw := weightPPG*finite(stats.PPG) +
		weightRPG*finite(stats.RPG) +
		weightAPG*finite(stats.APG) +
		weightFG*finite(stats.FG) +
		weightFI*finite(stats.FI)
	return strconv.FormatFloat(raw, 'f', 2, 64)
}

// ScoreValue is Score read back as a number.
func ScoreValue(stats player.Stats) float64 {
	v, _ := strconv.ParseFloat(Score(stats), 64)
	return v
}

// StatsFromForm coerces form text into stats. Trailing text after a number is
// ignored and anything without a leading number counts as zero.
func StatsFromForm(form player.Form) player.Stats {
	return player.Stats{
		PPG: parseStat(form.PPG),
		RPG: parseStat(form.RPG),
		APG: parseStat(form.APG),
		FG:  parseStat(form.FG),
		FI:  parseStat(form.FI),
	}
}

// Probability maps a fixed-point score string to a draft likelihood percentage.
func Probability(score string) int {
	return ProbabilityValue(parseStat(score))
}

// ProbabilityValue returns the probability of the highest band whose lower
// bound score reaches, or 35 below every band.
func ProbabilityValue(score float64) int {
	for _, b := range bands {
		if score >= b.min {
			return b.probability
		}
	}
	return floorProbability
}

// Recommendation is one suggested pick.
type Recommendation struct {
	Label    string
	Player   player.Player
	Score    float64
	Weighted float64
}

// Recommend ranks undrafted, active players by score weighted with their
// stored probability and returns at most RecommendationLimit of them. Input
// order breaks ties, so callers pass players in rank order.
func Recommend(players []player.Player) []Recommendation {
	pool := make([]Recommendation, 0, len(players))
	for _, p := range players {
		if p.Drafted || p.IsRemoved() {
			continue
		}
		score := ScoreValue(p.Stats)
		pool = append(pool, Recommendation{
			Player:   p,
			Score:    score,
			Weighted: score * float64(p.Probability) / 100,
		})
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Weighted > pool[j].Weighted
	})
	if len(pool) > RecommendationLimit {
		pool = pool[:RecommendationLimit]
	}
	for i := range pool {
		pool[i].Label = recommendationLabel(i)
	}

	return pool
}

// Reconcile drops removed players, sorts the rest by descending score and
// rewrites ranks as 1..N. Equal scores keep their input order.
func Reconcile(players []player.Player) []player.Player {
	out := make([]player.Player, 0, len(players))
	for _, p := range players {
		if p.IsRemoved() {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return ScoreValue(out[i].Stats) > ScoreValue(out[j].Stats)
	})
	for i := range out {
		out[i].Rank = i + 1
	}

	return out
}

// SortByRank orders players by rank, then id. Unranked players go last.
func SortByRank(players []player.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		ri, rj := players[i].Rank, players[j].Rank
		if ri != rj {
			if ri <= 0 {
				return false
			}
			if rj <= 0 {
				return true
			}
			return ri < rj
		}
		return players[i].ID < players[j].ID
	})
}

func recommendationLabel(idx int) string {
	if idx == 0 {
		return LabelFirstPick
	}
	return LabelNextPick
}

// leadingNumber matches the decimal number a stat field starts with.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseStat reads the longest leading decimal number, so "12.5 ppg" is 12.5.
func parseStat(raw string) float64 {
	num := leadingNumber.FindString(strings.TrimSpace(raw))
	if num == "" {
		return 0
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return finite(v)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
