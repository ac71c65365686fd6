// Package cluster groups OCR word boxes into text regions.
package cluster

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

// ErrEmptyGroup is returned when asked to merge zero boxes.
var ErrEmptyGroup = errors.New("cluster: no boxes to merge")

// Cluster partitions boxes into regions. Two boxes share a region when a
// chain of pairwise merges connects them, so a group keeps growing while any
// remaining box matches any current member. Regions are emitted in the order
// of their earliest input box, with dense ids starting at 0.
func Cluster(boxes []entity.WordBox, cfg Config) []entity.Region {
	if len(boxes) == 0 {
		return []entity.Region{}
	}

	ds := newDisjointSet(len(boxes))
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if ds.find(i) != ds.find(j) && ShouldMerge(boxes[i].BBox, boxes[j].BBox, cfg) {
				ds.union(i, j)
			}
		}
	}

	order := make([]int, 0, len(boxes))
	groups := make(map[int][]entity.WordBox, len(boxes))
	for i, b := range boxes {
		root := ds.find(i)
		if _, seen := groups[root]; !seen {
			order = append(order, root)
		}
		groups[root] = append(groups[root], b)
	}

	regions := make([]entity.Region, 0, len(order))
	for _, root := range order {
		// groups are never empty here.
		region, _ := Merge(groups[root])
		region.ID = len(regions)
		regions = append(regions, region)
	}
	return regions
}

// Merge folds a group into one region: members in reading order (top, then
// left), texts joined by single spaces, envelope bbox, and mean confidence
// rounded to three decimals. The returned ID is 0; Cluster assigns ids.
func Merge(group []entity.WordBox) (entity.Region, error) {
	if len(group) == 0 {
		return entity.Region{}, ErrEmptyGroup
	}

	sorted := make([]entity.WordBox, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].BBox, sorted[j].BBox
		if a.Top() != b.Top() {
			return a.Top() < b.Top()
		}
		return a.Left() < b.Left()
	})

	texts := make([]string, 0, len(sorted))
	env := sorted[0].BBox
	var sum float64
	for _, w := range sorted {
		texts = append(texts, w.Text)
		env = env.Union(w.BBox)
		sum += w.Confidence
	}

	return entity.Region{
		Text:        strings.Join(texts, " "),
		Confidence:  roundTo(sum/float64(len(sorted)), 3),
		BBox:        env,
		SourceCount: len(sorted),
	}, nil
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
