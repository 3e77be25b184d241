// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package results

import (
	"sort"
	"time"

	"github.com/votaciones-pe/sufragio/models"
)

// TopN is how many parties a per-category ranking keeps.
const TopN = 10

// Aggregate reduces a vote corpus into per-category, per-party and
// per-region tallies in a single pass.
//
// Every (category x known party) cell and every known region cell is
// seeded to zero first, so charts and tables keep a stable shape even
// with no votes. Parties and regions the seed lists do not know (ad
// hoc names from uploads) get cells on first sight; records with no
// region fall into the Other bucket.
func Aggregate(records []models.VoteRecord, knownParties, knownRegions []string) models.AggregatedResults {
	agg := models.AggregatedResults{
		ByCategory: make(map[string]int, len(models.Categories)),
		ByParty:    make(map[string]map[string]int, len(models.Categories)),
		ByRegion:   make(map[string]int, len(knownRegions)),
	}

	seedParties := make([]string, 0, len(knownParties)+2)
	seedParties = append(seedParties, knownParties...)
	seedParties = append(seedParties, models.PartyBlankVote, models.PartyNullVote)

	for _, cat := range models.Categories {
		agg.ByCategory[cat] = 0
		agg.ByParty[cat] = make(map[string]int, len(seedParties))
		for _, p := range seedParties {
			agg.ByParty[cat][p] = 0
		}
	}
	for _, region := range knownRegions {
		agg.ByRegion[region] = 0
	}

	for _, rec := range records {
		agg.TotalVotes++
		agg.ByCategory[rec.Category]++
		agg.ByParty[rec.Category][rec.Party]++

		region := rec.Region
		if region == "" {
			region = models.RegionOther
		}
		agg.ByRegion[region]++
	}

	return agg
}

// TopParties returns the ranking for one category: sentinel
// pseudo-parties excluded, descending by count, ties broken by party
// name ascending for run-to-run determinism, truncated to n.
func TopParties(agg models.AggregatedResults, category string, n int) []models.PartyCount {
	counts := agg.ByParty[category]

	names := make([]string, 0, len(counts))
	for name := range counts {
		if models.IsSentinelParty(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	sort.SliceStable(names, func(i, j int) bool {
		return counts[names[i]] > counts[names[j]]
	})

	if len(names) > n {
		names = names[:n]
	}

	rows := make([]models.PartyCount, len(names))
	for i, name := range names {
		rows[i] = models.PartyCount{
			Party:    name,
			Votes:    counts[name],
			PctTotal: percent(counts[name], agg.TotalVotes),
		}
	}
	return rows
}

// Table builds the full ranking-table view for one category: every
// counted party including the sentinels, with percentage of the grand
// total and percentage of valid votes. The valid-vote denominator is
// the category total minus sentinel votes; the sentinel rows
// themselves report no valid percentage (nil, "not applicable").
func Table(agg models.AggregatedResults, category string) models.CategoryTable {
	counts := agg.ByParty[category]

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	sort.SliceStable(names, func(i, j int) bool {
		return counts[names[i]] > counts[names[j]]
	})

	validVotes := agg.ByCategory[category]
	validVotes -= counts[models.PartyBlankVote]
	validVotes -= counts[models.PartyNullVote]

	rows := make([]models.PartyCount, 0, len(names))
	for _, name := range names {
		row := models.PartyCount{
			Party:    name,
			Votes:    counts[name],
			PctTotal: percent(counts[name], agg.TotalVotes),
		}
		if !models.IsSentinelParty(name) {
			v := percent(counts[name], validVotes)
			row.PctValid = &v
		}
		rows = append(rows, row)
	}

	return models.CategoryTable{
		Category:      category,
		CategoryVotes: agg.ByCategory[category],
		ValidVotes:    validVotes,
		Rows:          rows,
	}
}

// Metrics computes the live metrics panel values over the combined
// corpus. expectedBallots is the projected total turnout backing the
// participation rate, which caps at 100.
func Metrics(records []models.VoteRecord, expectedBallots int, now time.Time) models.ElectionMetrics {
	byCategory := make(map[string]int, len(models.Categories))
	for _, cat := range models.Categories {
		byCategory[cat] = 0
	}

	partyCounts := make(map[string]int)
	for _, rec := range records {
		byCategory[rec.Category]++
		partyCounts[rec.Party]++
	}

	leading := "N/A"
	best := 0
	parties := make([]string, 0, len(partyCounts))
	for name := range partyCounts {
		if models.IsSentinelParty(name) {
			continue
		}
		parties = append(parties, name)
	}
	sort.Strings(parties)
	for _, name := range parties {
		if partyCounts[name] > best {
			best = partyCounts[name]
			leading = name
		}
	}

	participation := 0.0
	if expectedBallots > 0 {
		participation = float64(len(records)) / float64(expectedBallots) * 100
		if participation > 100 {
			participation = 100
		}
	}

	return models.ElectionMetrics{
		TotalVotes:        len(records),
		ParticipationRate: participation,
		LeadingParty:      leading,
		VotesByCategory:   byCategory,
		ComputedAt:        now,
	}
}

// percent divides as a percentage, yielding 0 (not NaN or a panic)
// when the denominator is zero. The zero-vote state is reachable at
// system start and must render as 0%.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
