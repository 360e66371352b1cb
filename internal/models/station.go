package models

import "sort"

// StationCode identifies a weather station. It is the first whitespace
// delimited field of a line in the NOAA normals files.
type StationCode string

// StationSet is an unordered collection of unique station codes.
type StationSet struct {
	codes map[StationCode]struct{}
}

func NewStationSet(codes ...StationCode) *StationSet {
	s := &StationSet{
		codes: make(map[StationCode]struct{}, len(codes)),
	}
	for _, code := range codes {
		s.Add(code)
	}
	return s
}

func (s *StationSet) Add(code StationCode) {
	if s.codes == nil {
		s.codes = make(map[StationCode]struct{})
	}
	s.codes[code] = struct{}{}
}

func (s *StationSet) Contains(code StationCode) bool {
	if s == nil {
		return false
	}
	_, ok := s.codes[code]
	return ok
}

func (s *StationSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.codes)
}

// Codes returns the station codes in ascending order.
func (s *StationSet) Codes() []StationCode {
	if s == nil {
		return []StationCode{}
	}
	codes := make([]StationCode, 0, len(s.codes))
	for code := range s.codes {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		return codes[i] < codes[j]
	})
	return codes
}

// Intersection returns a new set holding the codes present in both sets.
func (s *StationSet) Intersection(other *StationSet) *StationSet {
	result := NewStationSet()
	if s.Len() == 0 || other.Len() == 0 {
		return result
	}

	// Walk the smaller set
	small, large := s, other
	if small.Len() > large.Len() {
		small, large = large, small
	}
	for code := range small.codes {
		if large.Contains(code) {
			result.Add(code)
		}
	}
	return result
}
