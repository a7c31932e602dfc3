package reconcile

import "sort"

// volumeKey is a comparable form of an optional volume number.
type volumeKey struct {
	n   int
	set bool
}

func keyOf(v *int) volumeKey {
	if v == nil {
		return volumeKey{}
	}
	return volumeKey{n: *v, set: true}
}

// interleave merges merged-source chapters into the primary list and returns the
// combined list in merge order. Merged chapters without a recognised number are dropped.
//
// When singleVolume is set, a merged chapter is kept only if its number is not already
// used by a primary chapter. Otherwise primary chapters are grouped by volume and a merged
// chapter is kept if its volume is unknown to the primary list, or the volume does not
// contain its number yet.
func interleave(primary, merged []Chapter, singleVolume bool) []Chapter {
	combined := make([]Chapter, 0, len(primary)+len(merged))
	combined = append(combined, primary...)

	if !singleVolume && oneVolumeWithoutTags(primary, merged) {
		singleVolume = true
	}

	if singleVolume {
		seen := make(map[float64]struct{}, len(primary))
		for _, c := range primary {
			if c.RecognizedNumber() {
				seen[c.ChapterNumber] = struct{}{}
			}
		}
		for _, c := range merged {
			if !c.RecognizedNumber() {
				continue
			}
			if _, dup := seen[c.ChapterNumber]; !dup {
				combined = append(combined, c)
			}
		}
		sort.SliceStable(combined, func(i, j int) bool {
			return combined[i].ChapterNumber > combined[j].ChapterNumber
		})
		return combined
	}

	volumes := make(map[volumeKey]map[float64]struct{})
	for _, c := range primary {
		k := keyOf(c.VolumeNumber)
		numbers, ok := volumes[k]
		if !ok {
			numbers = make(map[float64]struct{})
			volumes[k] = numbers
		}
		if c.RecognizedNumber() {
			numbers[c.ChapterNumber] = struct{}{}
		}
	}

	for _, c := range merged {
		if !c.RecognizedNumber() {
			continue
		}
		numbers, ok := volumes[keyOf(c.VolumeNumber)]
		if !ok {
			combined = append(combined, c)
			continue
		}
		if _, dup := numbers[c.ChapterNumber]; !dup {
			combined = append(combined, c)
		}
	}

	sort.SliceStable(combined, func(i, j int) bool {
		vi, vj := keyOf(combined[i].VolumeNumber), keyOf(combined[j].VolumeNumber)
		if vi != vj {
			if vi.set != vj.set {
				return vi.set
			}
			return vi.n > vj.n
		}
		return combined[i].ChapterNumber > combined[j].ChapterNumber
	})
	return combined
}

// oneVolumeWithoutTags detects one-shots and single-volume series where the primary
// source tags everything as volume 1 (or nothing) and the merged source omits volumes.
func oneVolumeWithoutTags(primary, merged []Chapter) bool {
	for _, c := range primary {
		if c.VolumeNumber != nil && *c.VolumeNumber != 1 {
			return false
		}
	}
	for _, c := range merged {
		if c.VolumeNumber != nil {
			return false
		}
	}
	return true
}
