// Package channel parses instrument column headers into acquisition-channel
// descriptors. The export names each analyte column with a small grammar:
//
//	"63  Cu  [ He ]"          plain mass
//	"75 -> 91  As  [ O2 ]"    mass-shift
//
// The derived channel id is a pure function of the header, unique per run.
package channel

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Descriptor captures one mass/gas-mode acquisition configuration.
type Descriptor struct {
	Header       string // original column header
	ID           string // e.g. "Cu63_He", "As75to91_O2"
	Element      string
	NominalMass  int
	AnalyzedMass int
	GasMode      string
	MassShift    bool
}

// Parse parses a single column header into a Descriptor.
func Parse(header string) (Descriptor, error) {
	s := strings.TrimSpace(header)
	if s == "" {
		return Descriptor{}, fmt.Errorf("empty header")
	}
	d := Descriptor{Header: header}

	if left, right, ok := strings.Cut(s, "->"); ok {
		// mass-shift: "<mass1> -> <mass2> <element> [ <gas> ]"
		nom, err := leadingMass(left)
		if err != nil {
			return Descriptor{}, fmt.Errorf("header %q: nominal mass: %w", header, err)
		}
		fields := strings.Fields(right)
		if len(fields) < 2 {
			return Descriptor{}, fmt.Errorf("header %q: expected analyzed mass and element after '->'", header)
		}
		analyzed, err := strconv.Atoi(fields[0])
		if err != nil {
			return Descriptor{}, fmt.Errorf("header %q: analyzed mass: %w", header, err)
		}
		gas, err := bracketedGas(right)
		if err != nil {
			return Descriptor{}, fmt.Errorf("header %q: %w", header, err)
		}
		d.NominalMass = nom
		d.AnalyzedMass = analyzed
		d.Element = fields[1]
		d.GasMode = gas
		d.MassShift = true
		d.ID = fmt.Sprintf("%s%dto%d_%s", d.Element, nom, analyzed, gas)
		return d, nil
	}

	// plain mass: "<mass> <element> [ <gas> ]"
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Descriptor{}, fmt.Errorf("header %q: expected mass and element", header)
	}
	mass, err := strconv.Atoi(fields[0])
	if err != nil {
		return Descriptor{}, fmt.Errorf("header %q: mass: %w", header, err)
	}
	gas, err := bracketedGas(s)
	if err != nil {
		return Descriptor{}, fmt.Errorf("header %q: %w", header, err)
	}
	d.NominalMass = mass
	d.AnalyzedMass = mass
	d.Element = fields[1]
	d.GasMode = gas
	d.ID = fmt.Sprintf("%s%d_%s", d.Element, mass, gas)
	return d, nil
}

func leadingMass(s string) (int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("missing mass")
	}
	return strconv.Atoi(fields[0])
}

func bracketedGas(s string) (string, error) {
	open := strings.Index(s, "[")
	end := strings.Index(s, "]")
	if open < 0 || end < open {
		return "", fmt.Errorf("missing [gas] token")
	}
	gas := strings.TrimSpace(s[open+1 : end])
	if gas == "" {
		return "", fmt.Errorf("empty [gas] token")
	}
	return gas, nil
}

// Set is the parsed channel metadata for one run: descriptors in header
// order, indexed by channel id, plus warnings for headers that were skipped.
type Set struct {
	Descriptors []Descriptor
	byID        map[string]Descriptor
	Warnings    []string
}

// ParseHeaders parses every non-metadata column header. Unparsable headers
// are skipped with a warning so a run still produces results for all
// parseable channels. Two distinct headers mapping to the same channel id is
// a defect in header assignment and fails the run.
func ParseHeaders(headers []string) (Set, error) {
	set := Set{byID: make(map[string]Descriptor, len(headers))}
	for _, h := range headers {
		d, err := Parse(h)
		if err != nil {
			set.Warnings = append(set.Warnings, fmt.Sprintf("skipping column %q: not a channel header", h))
			continue
		}
		if prev, dup := set.byID[d.ID]; dup {
			return Set{}, fmt.Errorf("channel id %s assigned to both %q and %q", d.ID, prev.Header, d.Header)
		}
		set.byID[d.ID] = d
		set.Descriptors = append(set.Descriptors, d)
	}
	return set, nil
}

// ByID looks up a descriptor by channel id.
func (s Set) ByID(id string) (Descriptor, bool) {
	d, ok := s.byID[id]
	return d, ok
}

// Elements returns the distinct element symbols across all channels, sorted.
func (s Set) Elements() []string {
	seen := make(map[string]bool, len(s.Descriptors))
	var out []string
	for _, d := range s.Descriptors {
		if !seen[d.Element] {
			seen[d.Element] = true
			out = append(out, d.Element)
		}
	}
	sort.Strings(out)
	return out
}
