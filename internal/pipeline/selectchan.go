package pipeline

import (
	"math"
	"sort"

	"github.com/geochemlab/icpqc/internal/channel"
)

// Band is an inclusive percent-recovery acceptance interval.
type Band struct {
	Lo, Hi float64
}

// Contains reports whether a recovery falls in the band; a nil (undefined)
// recovery always fails.
func (b Band) Contains(pct *float64) bool {
	return pct != nil && *pct >= b.Lo && *pct <= b.Hi
}

// Default QC tolerance bands.
var (
	DefaultCalibrationBand = Band{Lo: 90, Hi: 110}
	DefaultReferenceBand   = Band{Lo: 80, Hi: 120}
)

// Selection records, per element, which acquisition channel is authoritative
// and the QC evidence behind the choice. ChannelID is nil when no channel
// could be selected.
type Selection struct {
	Element             string
	ChannelID           *string
	CalibrationRecovery *float64
	CalibrationPass     bool
	ReferenceRecovery   *float64
	ReferencePass       bool
}

// candidate is one channel's recovery evidence for an element, built by an
// outer join of the two recovery populations on channel id.
type candidate struct {
	channelID string
	cal       *float64
	ref       *float64
}

// SelectChannels arbitrates, per element, between competing acquisition
// channels. A channel passing both bands wins; ties break deterministically
// on lexicographic channel id. Failing that, the channel whose reference
// recovery is closest to 100% wins; channels with no reference recovery are
// excluded from that comparison. When no channel has any reference recovery
// the selection is undefined. Elements with no recovery rows at all yield a
// nil-channel record with both pass flags false.
func SelectChannels(set channel.Set, rec RecoverySet, calBand, refBand Band) []Selection {
	out := make([]Selection, 0, len(set.Elements()))
	for _, elem := range set.Elements() {
		cands := gather(elem, rec)
		sel := Selection{Element: elem}
		if len(cands) == 0 {
			out = append(out, sel)
			continue
		}

		chosen := -1
		for i, c := range cands {
			if calBand.Contains(c.cal) && refBand.Contains(c.ref) {
				chosen = i
				break
			}
		}
		if chosen < 0 {
			best := math.Inf(1)
			for i, c := range cands {
				if c.ref == nil {
					continue
				}
				if d := math.Abs(*c.ref - 100); d < best {
					best = d
					chosen = i
				}
			}
		}
		if chosen < 0 {
			// No channel has a reference recovery; selection is undefined.
			out = append(out, sel)
			continue
		}

		c := cands[chosen]
		sel.ChannelID = &cands[chosen].channelID
		sel.CalibrationRecovery = c.cal
		sel.CalibrationPass = calBand.Contains(c.cal)
		sel.ReferenceRecovery = c.ref
		sel.ReferencePass = refBand.Contains(c.ref)
		out = append(out, sel)
	}
	return out
}

// gather outer-joins the element's calibration and reference recoveries by
// channel id, keeping the first defined recovery per channel per kind, and
// returns candidates in lexicographic channel-id order.
func gather(element string, rec RecoverySet) []candidate {
	byID := map[string]*candidate{}
	get := func(id string) *candidate {
		c := byID[id]
		if c == nil {
			c = &candidate{channelID: id}
			byID[id] = c
		}
		return c
	}
	for _, r := range rec.Calibration {
		if r.Element != element {
			continue
		}
		c := get(r.ChannelID)
		if c.cal == nil && r.Percent != nil {
			c.cal = r.Percent
		}
	}
	for _, r := range rec.Reference {
		if r.Element != element {
			continue
		}
		c := get(r.ChannelID)
		if c.ref == nil && r.Percent != nil {
			c.ref = r.Percent
		}
	}
	out := make([]candidate, 0, len(byID))
	for _, c := range byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].channelID < out[j].channelID })
	return out
}
