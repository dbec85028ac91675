// Package ints implements a sparse-range bitset of integers.
// It backs the character set variant of charclass.Class.
package ints

import "math/bits"

const IntSizeShift = 5 + (^uint(0) >> 32 & 1)
const IntSize = 1 << IntSizeShift

// Set is a bitset covering items in [lowItem, highItem), both bounds are multiples of IntSize.
// The zero value is an empty set.
type Set struct {
	lowItem, highItem int
	chunks            []uint
}

func NewSet(items ...int) *Set {
	result := &Set{}
	if len(items) > 0 {
		result.Add(items...)
	}
	return result
}

// FromRunes creates set containing given runes.
func FromRunes(runes ...rune) *Set {
	result := &Set{}
	if len(runes) == 0 {
		return result
	}

	low, high := int(runes[0]), int(runes[0])
	for _, r := range runes[1:] {
		low = min(low, int(r))
		high = max(high, int(r))
	}
	result.allocate(low, high)
	for _, r := range runes {
		result.doSet(int(r), false)
	}
	return result
}

// Len returns the number of items in the set.
func (s *Set) Len() int {
	result := 0
	for _, chunk := range s.chunks {
		result += bits.OnesCount(chunk)
	}
	return result
}

// ToSlice returns sorted items.
func (s *Set) ToSlice() []int {
	result := make([]int, 0, s.Len())
	item := s.lowItem
	for _, chunk := range s.chunks {
		for i := IntSize; i > 0; i-- {
			if chunk&1 != 0 {
				result = append(result, item)
			}
			item++
			chunk = chunk >> 1
		}
	}
	return result
}

// Runes returns sorted items converted to runes.
func (s *Set) Runes() []rune {
	items := s.ToSlice()
	result := make([]rune, len(items))
	for i, item := range items {
		result[i] = rune(item)
	}
	return result
}

func (s *Set) baseItem(item int) int {
	return item & ^(IntSize - 1)
}

func (s *Set) allocate(low, high int) {
	lowItem := s.baseItem(low)
	highItem := s.baseItem(high) + IntSize
	if lowItem >= s.lowItem && highItem <= s.highItem {
		return
	}

	if len(s.chunks) != 0 {
		lowItem = min(lowItem, s.lowItem)
		highItem = max(highItem, s.highItem)
	}

	chunkCnt := (highItem - lowItem) >> IntSizeShift
	chunks := make([]uint, chunkCnt)
	if len(s.chunks) != 0 {
		offset := (s.lowItem - lowItem) >> IntSizeShift
		copy(chunks[offset:], s.chunks)
	}
	s.chunks = chunks
	s.lowItem = lowItem
	s.highItem = highItem
}

func (s *Set) chunkIndex(item int) int {
	return (item - s.lowItem) >> IntSizeShift
}

func bitMask(item int) uint {
	return 1 << (uint(item) & (IntSize - 1))
}

func (s *Set) doSet(item int, invert bool) {
	if invert {
		s.chunks[s.chunkIndex(item)] &= ^bitMask(item)
	} else {
		s.chunks[s.chunkIndex(item)] |= bitMask(item)
	}
}

func minMax(items []int) (low, high int) {
	low = items[0]
	high = items[0]
	for _, item := range items[1:] {
		low = min(low, item)
		high = max(high, item)
	}
	return
}

func (s *Set) Add(items ...int) *Set {
	if len(items) == 0 {
		return s
	}

	low, high := minMax(items)
	s.allocate(low, high)
	for _, item := range items {
		s.doSet(item, false)
	}
	return s
}

func (s *Set) Remove(items ...int) *Set {
	for _, item := range items {
		if s.Contains(item) {
			s.doSet(item, true)
		}
	}
	return s
}

func (s *Set) Contains(item int) bool {
	if item < s.lowItem || item >= s.highItem {
		return false
	} else {
		return (s.chunks[s.chunkIndex(item)]&bitMask(item) != 0)
	}
}

func (s *Set) Copy() *Set {
	items := make([]uint, len(s.chunks))
	copy(items, s.chunks)
	return &Set{s.lowItem, s.highItem, items}
}

func (s *Set) IsEmpty() bool {
	for _, chunk := range s.chunks {
		if chunk != 0 {
			return false
		}
	}

	return true
}

// Union returns new set containing items of both s and t.
func Union(s, t *Set) *Set {
	switch {
	case len(s.chunks) == 0:
		return t.Copy()
	case len(t.chunks) == 0:
		return s.Copy()
	}

	result := &Set{}
	result.allocate(min(s.lowItem, t.lowItem), max(s.highItem, t.highItem)-1)
	offset := (s.lowItem - result.lowItem) >> IntSizeShift
	copy(result.chunks[offset:], s.chunks)
	offset = (t.lowItem - result.lowItem) >> IntSizeShift
	for _, chunk := range t.chunks {
		result.chunks[offset] |= chunk
		offset++
	}
	return result
}
