package layout

import (
	"math"
	"sort"
	"time"

	"mindmap-backend/internal/domain"
)

const (
	timelinePadding  = 100.0
	timelineRowStep  = 80.0
	overflowColSpan  = 100.0
	overflowRowJitter = 60.0
)

// PlaceTimeline positions historical nodes on a horizontal timeline. Dated
// nodes are projected proportionally between the earliest and latest parsed
// date, staggered vertically by a modulo-7 row cycle so same-date nodes do
// not stack exactly. Undated or unparsable nodes go to an overflow row below
// the timeline. Every placed node comes back pinned.
func PlaceTimeline(nodes []domain.Node, canvasWidth float64) []domain.Node {
	if canvasWidth <= 0 {
		canvasWidth = 1000
	}
	timelineWidth := canvasWidth - 2*timelinePadding

	type dated struct {
		idx int
		t   time.Time
	}
	var withDates []dated
	var withoutDates []int
	for i := range nodes {
		if t, ok := domain.ParseEventDate(nodes[i].Date); ok {
			withDates = append(withDates, dated{idx: i, t: t})
		} else {
			withoutDates = append(withoutDates, i)
		}
	}
	if len(withDates) == 0 {
		return nodes
	}

	sort.Slice(withDates, func(i, j int) bool { return withDates[i].t.Before(withDates[j].t) })

	minDate := withDates[0].t
	maxDate := withDates[len(withDates)-1].t
	timeRange := maxDate.Sub(minDate)

	out := make([]domain.Node, len(nodes))
	copy(out, nodes)

	for order, d := range withDates {
		n := &out[d.idx]
		var x float64
		if timeRange > 0 {
			offset := d.t.Sub(minDate)
			x = timelinePadding + (float64(offset)/float64(timeRange))*timelineWidth
		} else {
			x = canvasWidth / 2
		}
		y := float64(order%7-3) * timelineRowStep
		n.Position = &domain.Position{X: x, Y: y}
		n.Pinned = true
	}

	overflowY := (math.Floor(float64(len(withDates))/7) + 2) * timelineRowStep
	for i, idx := range withoutDates {
		n := &out[idx]
		x := timelinePadding + math.Mod(float64(i)*overflowColSpan, timelineWidth)
		y := overflowY + float64(i%3-1)*overflowRowJitter
		n.Position = &domain.Position{X: x, Y: y}
		n.Pinned = true
	}

	return out
}
