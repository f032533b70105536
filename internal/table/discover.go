package table

import "strings"

// Column discovery for the instrument export. The export does not use fixed
// header names, so the acquisition-time and sample-name columns are found by
// an ordered list of named heuristics tried in priority order, ending in a
// positional fallback. Each heuristic is independently testable.

// discoveryWindow bounds how many leading columns the keyword heuristics
// inspect; channel headers start early and must not be scanned.
const discoveryWindow = 5

type columnHeuristic struct {
	Name string
	// Find returns a column index, or -1. exclude is a column already
	// claimed by an earlier discovery (-1 when none).
	Find func(headers []string, exclude int) int
}

var acqTimeHeuristics = []columnHeuristic{
	{Name: "keyword date/time/acq", Find: keywordHeuristic("date", "time", "acq")},
	{Name: "first column", Find: positionalHeuristic(0)},
}

var sampleIDHeuristics = []columnHeuristic{
	{Name: "keyword sample/name", Find: keywordHeuristic("sample", "name")},
	{Name: "second column", Find: positionalHeuristic(1)},
	{Name: "first column", Find: positionalHeuristic(0)},
}

// keywordHeuristic matches the first header in the discovery window whose
// lower-cased text contains any keyword.
func keywordHeuristic(keywords ...string) func([]string, int) int {
	return func(headers []string, exclude int) int {
		n := len(headers)
		if n > discoveryWindow {
			n = discoveryWindow
		}
		for i := 0; i < n; i++ {
			if i == exclude {
				continue
			}
			h := strings.ToLower(headers[i])
			for _, kw := range keywords {
				if strings.Contains(h, kw) {
					return i
				}
			}
		}
		return -1
	}
}

// positionalHeuristic is the last-resort fallback to a fixed column.
func positionalHeuristic(idx int) func([]string, int) int {
	return func(headers []string, exclude int) int {
		if idx >= len(headers) || idx == exclude {
			return -1
		}
		return idx
	}
}

// discoverColumn runs heuristics in order and reports the chosen index plus
// the name of the heuristic that matched.
func discoverColumn(hs []columnHeuristic, headers []string, exclude int) (int, string) {
	for _, h := range hs {
		if idx := h.Find(headers, exclude); idx >= 0 {
			return idx, h.Name
		}
	}
	return -1, ""
}
