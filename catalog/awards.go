package catalog

import (
	"time"

	"awardkit/core"
	req "awardkit/requirements"
)

// Rating-class positions used by the default catalogue. Positions order the
// site's rating classes from worst to best; 4 and up is the top class.
const (
	ratingPositive  = 3
	ratingExcellent = 4
	ratingNegative  = 1
)

const day = 24 * time.Hour

// Default returns the site's award catalogue. Specs are concatenated from one
// constructor per award code; display positions follow that order.
func Default() Catalog {
	var specs []Spec
	specs = append(specs, architectAwards()...)
	specs = append(specs, criticAwards()...)
	specs = append(specs, earlyBirdAward()...)
	specs = append(specs, dedicatedFanAward()...)
	specs = append(specs, pioneerAward()...)
	specs = append(specs, sprinterAward()...)
	specs = append(specs, marathonerAward()...)
	specs = append(specs, explorerAwards()...)
	specs = append(specs, connoisseurAward()...)
	specs = append(specs, survivorAward()...)
	specs = append(specs, crowdPleaserAwards()...)
	specs = append(specs, guideAwards()...)
	return MustNew(specs)
}

// architectAwards ladders on approved authored levels. Lower tiers allow a
// quality shortcut: one excellently rated level counts as much as several
// plain ones.
func architectAwards() []Spec {
	counts := []int{1, 3, 5, 10, 20}
	specs := make([]Spec, 0, len(counts))
	for i, n := range counts {
		r := req.Requirement(req.AuthoredLevels{Min: n})
		if i > 0 {
			r = req.Or(
				req.AuthoredLevels{Min: i, Filter: core.LevelFilter{MinRatingPosition: core.Int(ratingExcellent)}},
				r,
			)
		}
		specs = append(specs, Spec{
			Code:        "architect",
			Tier:        i + 1,
			Position:    1,
			Title:       "Architect " + roman(i+1),
			Description: "Released approved levels on the site.",
			Requirement: r,
		})
	}
	return specs
}

// criticAwards ladders on total reviews combined with early reviews, posted
// within a month of the reviewed level's release.
func criticAwards() []Spec {
	totals := []int{25, 100, 200, 400, 800}
	early := []int{5, 15, 50, 100, 200}
	specs := make([]Spec, 0, len(totals))
	for i := range totals {
		specs = append(specs, Spec{
			Code:        "critic",
			Tier:        i + 1,
			Position:    2,
			Title:       "Critic " + roman(i+1),
			Description: "Reviewed levels, including fresh releases.",
			GuideDescription: "Counts reviews of any level; the early-review " +
				"part counts reviews posted within 30 days of release.",
			Requirement: req.And(
				req.TotalReviews{Min: totals[i]},
				req.EarlyReviews{Min: early[i], Within: 30 * day},
			),
		})
	}
	return specs
}

func earlyBirdAward() []Spec {
	return []Spec{{
		Code:        "early_bird",
		Tier:        0,
		Position:    3,
		Title:       "Early Bird",
		Description: "Posted 20 reviews among the first three for a level.",
		Requirement: req.ReviewsAtPosition{Min: 20, MinPosition: 1, MaxPosition: 3},
	}}
}

func dedicatedFanAward() []Spec {
	return []Spec{{
		Code:        "dedicated_fan",
		Tier:        0,
		Position:    4,
		Title:       "Dedicated Fan",
		Description: "Reviewed 25 levels by a single author.",
		Requirement: req.ReviewsOfSingleAuthor{Min: 25},
	}}
}

// pioneerAward marks accounts from the site's launch year. It is removable:
// a banned or deactivated account loses it.
func pioneerAward() []Spec {
	from := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2021, time.December, 31, 23, 59, 59, 0, time.UTC)
	return []Spec{{
		Code:         "pioneer",
		Tier:         0,
		Position:     5,
		Title:        "Pioneer",
		Description:  "Joined during the site's launch year.",
		CanBeRemoved: true,
		Requirement:  req.JoinedBetween{From: from, To: to},
	}}
}

func sprinterAward() []Spec {
	return []Spec{{
		Code:        "sprinter",
		Tier:        0,
		Position:    6,
		Title:       "Sprinter",
		Description: "Released two approved levels within a week of each other.",
		Requirement: req.LevelsReleasedWithin{Window: 7 * day},
	}}
}

func marathonerAward() []Spec {
	return []Spec{{
		Code:        "marathoner",
		Tier:        0,
		Position:    7,
		Title:       "Marathoner",
		Description: "Released two approved levels at least five years apart.",
		Requirement: req.LevelsReleasedApart{Gap: 5 * 365 * day},
	}}
}

func explorerAwards() []Spec {
	counts := []int{5, 25, 50, 100}
	specs := make([]Spec, 0, len(counts))
	for i, n := range counts {
		specs = append(specs, Spec{
			Code:        "explorer",
			Tier:        i + 1,
			Position:    8,
			Title:       "Explorer " + roman(i+1),
			Description: "Finished levels from the playlist.",
			Requirement: req.PlaylistFinished{Min: n},
		})
	}
	return specs
}

func connoisseurAward() []Spec {
	return []Spec{{
		Code:        "connoisseur",
		Tier:        0,
		Position:    9,
		Title:       "Connoisseur",
		Description: "Finished 25 positively rated levels.",
		Requirement: req.PlaylistFinished{
			Min:    25,
			Filter: core.PlaylistFilter{MinRatingPosition: core.Int(ratingPositive)},
		},
	}}
}

func survivorAward() []Spec {
	return []Spec{{
		Code:        "survivor",
		Tier:        0,
		Position:    10,
		Title:       "Survivor",
		Description: "Finished 25 negatively rated levels.",
		Requirement: req.PlaylistFinished{
			Min:    25,
			Filter: core.PlaylistFilter{MaxRatingPosition: core.Int(ratingNegative)},
		},
	}}
}

func crowdPleaserAwards() []Spec {
	counts := []int{10, 50, 100}
	specs := make([]Spec, 0, len(counts))
	for i, n := range counts {
		specs = append(specs, Spec{
			Code:        "crowd_pleaser",
			Tier:        i + 1,
			Position:    11,
			Title:       "Crowd Pleaser " + roman(i+1),
			Description: "Distinct players added this author's levels to their playlist.",
			Requirement: req.DistinctPlayers{Min: n},
		})
	}
	return specs
}

func guideAwards() []Spec {
	return []Spec{
		{
			Code:        "guide",
			Tier:        1,
			Position:    12,
			Title:       "Guide I",
			Description: "Published an approved walkthrough.",
			Requirement: req.ApprovedWalkthroughs{Min: 1, Type: core.WalkthroughAny},
		},
		{
			Code:        "guide",
			Tier:        2,
			Position:    12,
			Title:       "Guide II",
			Description: "Published five approved walkthroughs.",
			Requirement: req.ApprovedWalkthroughs{Min: 5, Type: core.WalkthroughAny},
		},
		{
			Code:        "guide",
			Tier:        3,
			Position:    12,
			Title:       "Guide III",
			Description: "Published five approved text and five video walkthroughs.",
			Requirement: req.And(
				req.ApprovedWalkthroughs{Min: 5, Type: core.WalkthroughText},
				req.ApprovedWalkthroughs{Min: 5, Type: core.WalkthroughVideo},
			),
		},
	}
}

func roman(n int) string {
	numerals := []string{"I", "II", "III", "IV", "V"}
	if n >= 1 && n <= len(numerals) {
		return numerals[n-1]
	}
	return ""
}
