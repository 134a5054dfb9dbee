package x12claims

import "testing"

func loopSegments() []RawSegment {
	return []RawSegment{
		{"HL", "1", "", "20", "1"},
		{"NM1", "85", "2", "CLINIC"},
		{"N3", "123 MAIN STREET"},
		{"N4", "ANYTOWN", "PA", "17111"},
		{"HL", "2", "1", "22", "0"},
		{"SBR", "P", "18"},
	}
}

func TestCollectLoopStopsAtMarker(t *testing.T) {
	loop := collectLoop(loopSegments(), 0, []string{hlSegmentId}, 20)
	assertEqual(t, len(loop), 3)
	assertEqual(t, loop[0].ID(), nm1SegmentId)
	assertEqual(t, loop[2].ID(), n4SegmentId)
}

func TestCollectLoopMultipleStopMarkers(t *testing.T) {
	segments := []RawSegment{
		{"HL", "2", "1", "22", "0"},
		{"SBR", "P", "18"},
		{"NM1", "IL", "1", "SMITH"},
		{"CLM", "CLAIM001", "100.00"},
		{"DTP", "431", "D8", "20250110"},
	}
	loop := collectLoop(
		segments, 0, []string{hlSegmentId, clmSegmentId}, 30,
	)
	assertEqual(t, len(loop), 2)
	assertEqual(t, loop[1].ID(), nm1SegmentId)
}

func TestCollectLoopTruncatesAtBound(t *testing.T) {
	// A bound of 2 scans only the two segments after the start, even
	// though the loop's stop marker is further out.
	loop := collectLoop(loopSegments(), 0, []string{hlSegmentId}, 2)
	assertEqual(t, len(loop), 1)
	assertEqual(t, loop[0].ID(), nm1SegmentId)
}

func TestCollectLoopRunsOffTheEnd(t *testing.T) {
	segments := loopSegments()
	loop := collectLoop(segments, 4, []string{hlSegmentId}, 20)
	assertEqual(t, len(loop), 1)
	assertEqual(t, loop[0].ID(), sbrSegmentId)
}

func TestFindSegment(t *testing.T) {
	segments := loopSegments()
	assertEqual(t, findSegment(segments, hlSegmentId, 0), 0)
	assertEqual(t, findSegment(segments, hlSegmentId, 1), 4)
	assertEqual(t, findSegment(segments, clmSegmentId, 0), -1)

	seg, ok := firstSegment(segments, sbrSegmentId)
	assertEqual(t, ok, true)
	assertEqual(t, seg.Get(1), "P")

	_, ok = firstSegment(segments, clmSegmentId)
	assertEqual(t, ok, false)
}
