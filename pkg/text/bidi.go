package text

import "golang.org/x/text/unicode/bidi"

// direction is the strong direction a rune resolves to.
type direction uint8

const (
	dirNeutral direction = iota
	dirLTR
	dirRTL
	dirNumber
	dirMark // non-spacing mark, follows the previous rune
)

func classify(r rune) direction {
	p, _ := bidi.LookupRune(r)
	switch p.Class() {
	case bidi.L:
		return dirLTR
	case bidi.R, bidi.AL:
		return dirRTL
	case bidi.EN, bidi.AN:
		return dirNumber
	case bidi.NSM:
		return dirMark
	}
	return dirNeutral
}

// baseDirection is the direction of the first strong rune, LTR when there
// is none.
func baseDirection(rs []rune) direction {
	for _, r := range rs {
		switch classify(r) {
		case dirLTR:
			return dirLTR
		case dirRTL:
			return dirRTL
		}
	}
	return dirLTR
}

// resolveLevels assigns an embedding level to every rune of a paragraph.
// Levels are 0 (LTR) or 1 (RTL) in an LTR paragraph and 1 or 2 in an RTL
// one. Numbers after RTL text, or anywhere in an RTL paragraph, keep their
// digit order by sitting one level above RTL text.
func resolveLevels(rs []rune, base direction) []uint8 {
	var baseLevel uint8
	if base == dirRTL {
		baseLevel = 1
	}
	ltr := baseLevel + baseLevel%2 // lowest even level >= base: 0 or 2
	rtl := uint8(1)
	num := uint8(2)
	if base == dirLTR {
		num = 0
	}

	classes := make([]direction, len(rs))
	for i, r := range rs {
		classes[i] = classify(r)
	}

	levels := make([]uint8, len(rs))
	prevStrong := base
	for i, c := range classes {
		switch c {
		case dirLTR:
			levels[i] = ltr
			prevStrong = dirLTR
		case dirRTL:
			levels[i] = rtl
			prevStrong = dirRTL
		case dirNumber:
			if prevStrong == dirRTL {
				levels[i] = 2
			} else {
				levels[i] = num
			}
		}
	}

	// Neutrals take the direction of the surrounding strong text when both
	// sides agree, the paragraph direction otherwise. Numbers count as RTL
	// here.
	strongAt := func(i int) direction {
		switch classes[i] {
		case dirLTR:
			return dirLTR
		case dirRTL:
			return dirRTL
		case dirNumber:
			if levels[i] == 2 || base == dirRTL {
				return dirRTL
			}
			return dirLTR
		}
		return dirNeutral
	}
	for i := 0; i < len(rs); {
		if classes[i] != dirNeutral && classes[i] != dirMark {
			i++
			continue
		}
		j := i
		for j < len(rs) && (classes[j] == dirNeutral || classes[j] == dirMark) {
			j++
		}
		before, after := base, base
		if i > 0 {
			before = strongAt(i - 1)
		}
		if j < len(rs) {
			after = strongAt(j)
		}
		lvl := baseLevel
		if before == after {
			if before == dirRTL {
				lvl = rtl
			} else {
				lvl = ltr
			}
		}
		for k := i; k < j; k++ {
			levels[k] = lvl
		}
		i = j
	}

	// Marks inherit the level of the rune they attach to.
	for i, c := range classes {
		if c == dirMark && i > 0 {
			levels[i] = levels[i-1]
		}
	}
	return levels
}

// visualOrder returns the display order of indices 0..len(levels)-1 by
// reversing every maximal run at or above each odd level, highest first.
func visualOrder(levels []uint8) []int {
	order := make([]int, len(levels))
	var maxLevel uint8
	lowestOdd := uint8(255)
	for i, l := range levels {
		order[i] = i
		maxLevel = max(maxLevel, l)
		if l%2 == 1 {
			lowestOdd = min(lowestOdd, l)
		}
	}
	for lvl := maxLevel; lvl >= lowestOdd && lvl > 0; lvl-- {
		for i := 0; i < len(order); {
			if levels[order[i]] < lvl {
				i++
				continue
			}
			j := i
			for j < len(order) && levels[order[j]] >= lvl {
				j++
			}
			for a, b := i, j-1; a < b; a, b = a+1, b-1 {
				order[a], order[b] = order[b], order[a]
			}
			i = j
		}
	}
	return order
}
