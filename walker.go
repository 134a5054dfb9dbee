package x12claims

// The loop walker is the one primitive used to reconstruct implicit
// parent/child record groups from the flat segment list. X12 loops have
// no explicit framing: a loop is simply the run of segments following
// its marker, up to the next sibling-or-higher marker. Every loop type
// in the mapper (provider, subscriber, claim, service line) is walked
// with this same primitive; only the stop set, the lookahead bound, and
// the per-segment field extraction differ.

// collectLoop returns the contiguous run of segments starting just
// after start, ending before the first segment whose identifier is in
// stopIds or once maxLookahead segments past start have been scanned,
// whichever comes first. The bound keeps cost linear and tolerates
// malformed input that never terminates a loop, at the price of
// truncating a loop longer than the bound.
func collectLoop(
	segments []RawSegment,
	start int,
	stopIds []string,
	maxLookahead int,
) []RawSegment {
	var collected []RawSegment
	end := start + maxLookahead
	if end > len(segments) {
		end = len(segments)
	}
	for i := start + 1; i < end; i++ {
		if sliceContains(stopIds, segments[i].ID()) {
			break
		}
		collected = append(collected, segments[i])
	}
	return collected
}

// findSegment returns the index of the first segment with the given
// identifier at or after start, or -1 if there is none.
func findSegment(segments []RawSegment, segmentId string, start int) int {
	for i := start; i < len(segments); i++ {
		if segments[i].ID() == segmentId {
			return i
		}
	}
	return -1
}

// firstSegment returns the first segment with the given identifier.
func firstSegment(segments []RawSegment, segmentId string) (RawSegment, bool) {
	if i := findSegment(segments, segmentId, 0); i >= 0 {
		return segments[i], true
	}
	return nil, false
}

func sliceContains[V comparable](row []V, value V) bool {
	for _, v := range row {
		if v == value {
			return true
		}
	}
	return false
}
