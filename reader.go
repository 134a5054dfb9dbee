package x12claims

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var ParseError = errors.New("parse error")

// ErrMalformedHeader indicates the fixed-width ISA header could not be
// read, so the delimiters (and therefore the rest of the message) are
// unrecoverable. It's the only condition that halts processing outright.
var ErrMalformedHeader = errors.New("malformed ISA header")

// RawSegment is a single tokenized segment - an ordered list of element
// values, where the first element is the segment identifier. Elements
// may contain sub-elements joined by the sub-element separator; those
// are split lazily by consumers, not by the tokenizer.
type RawSegment []string

// ID returns the segment identifier (the first element), or an empty
// string for an empty segment.
func (s RawSegment) ID() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Get returns the element at the given index, or an empty string if the
// segment is too short. All positional access goes through here so that
// "missing element" is a single code path.
func (s RawSegment) Get(index int) string {
	if index < 0 || index >= len(s) {
		return ""
	}
	return s[index]
}

// GetTrimmed returns the element at the given index with surrounding
// whitespace removed. Fixed-width ISA elements are space-padded.
func (s RawSegment) GetTrimmed(index int) string {
	return strings.TrimSpace(s.Get(index))
}

// Delimiters is the set of three single-character delimiters recovered
// from the ISA header. All three are guaranteed distinct by
// DetectDelimiters.
type Delimiters struct {
	Element    rune
	SubElement rune
	Segment    rune
}

// DetectDelimiters recovers the delimiter set from the fixed-position
// ISA header: the element separator at offset 3, the sub-element
// separator at offset 104, and the segment terminator as the first
// character in [105, 108) that is neither of those separators nor
// whitespace. All failures wrap ErrMalformedHeader.
func DetectDelimiters(content string) (Delimiters, error) {
	var d Delimiters
	runes := []rune(content)
	if len(runes) < isaByteCount {
		return d, fmt.Errorf(
			"%w: content too short to contain an ISA segment (expected at least %d characters, got %d)",
			ErrMalformedHeader, isaByteCount, len(runes),
		)
	}
	if !strings.HasPrefix(content, isaSegmentId) {
		return d, fmt.Errorf(
			"%w: content must start with an %s segment",
			ErrMalformedHeader, isaSegmentId,
		)
	}

	d.Element = runes[isaElementSeparatorIndex]
	d.SubElement = runes[isaSubElementSeparatorIndex]
	if d.Element == d.SubElement {
		return d, fmt.Errorf(
			"%w: element separator %q cannot be the same as the sub-element separator",
			ErrMalformedHeader, d.Element,
		)
	}

	scanEnd := terminatorScanEnd
	if len(runes) < scanEnd {
		scanEnd = len(runes)
	}
	for i := terminatorScanStart; i < scanEnd; i++ {
		c := runes[i]
		if c == d.Element || c == d.SubElement {
			continue
		}
		if c == ' ' || c == '\n' || c == '\r' {
			continue
		}
		d.Segment = c
		return d, nil
	}
	return d, fmt.Errorf(
		"%w: no segment terminator found after the ISA segment",
		ErrMalformedHeader,
	)
}

// Tokenize splits content into an ordered list of segments using the
// given delimiters. Line breaks are cosmetic in this format and are
// stripped first; empty or whitespace-only chunks (trailing terminators,
// blank lines) are dropped silently. Segment order is preserved exactly.
func Tokenize(content string, delimiters Delimiters) []RawSegment {
	replacer := strings.NewReplacer("\r\n", "", "\r", "", "\n", "")
	content = replacer.Replace(content)

	chunks := strings.Split(content, string(delimiters.Segment))
	segments := make([]RawSegment, 0, len(chunks))
	for _, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		segments = append(segments, strings.Split(chunk, string(delimiters.Element)))
	}
	return segments
}

// RawMessage is a tokenized X12 message: the recovered delimiters plus
// the ordered segment list. It's immutable once read; the classifier,
// validator and mapper all consume it without modifying it.
type RawMessage struct {
	Delimiters Delimiters
	segments   []RawSegment
}

// Read parses the given byte slice into a RawMessage. The only hard
// failure is an unreadable ISA header (ErrMalformedHeader); everything
// past delimiter recovery is tolerated here and left to the validator.
func Read(data []byte) (*RawMessage, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: message text is not valid UTF-8", ParseError)
	}
	text := strings.TrimLeftFunc(string(data), unicode.IsSpace)
	delimiters, err := DetectDelimiters(text)
	if err != nil {
		return nil, err
	}
	return &RawMessage{
		Delimiters: delimiters,
		segments:   Tokenize(text, delimiters),
	}, nil
}

// Segments returns the ordered segment list.
func (r *RawMessage) Segments() []RawSegment {
	return r.segments
}

// String reassembles the message from its segments using the original
// delimiters. Tokenizing the result yields the same segment list back.
func (r *RawMessage) String() string {
	var b strings.Builder
	for _, segment := range r.segments {
		for i, element := range segment {
			if i > 0 {
				b.WriteRune(r.Delimiters.Element)
			}
			b.WriteString(element)
		}
		b.WriteRune(r.Delimiters.Segment)
	}
	return b.String()
}

type InterchangeHeader struct {
	SenderIdQualifier   string `json:"senderIdQualifier"`   // ISA05
	SenderId            string `json:"senderId"`            // ISA06
	ReceiverIdQualifier string `json:"receiverIdQualifier"` // ISA07
	ReceiverId          string `json:"receiverId"`          // ISA08
	Date                string `json:"date"`                // ISA09
	Time                string `json:"time"`                // ISA10
	Version             string `json:"versionNumber"`       // ISA12
	ControlNumber       string `json:"controlNumber"`       // ISA13
	UsageIndicator      string `json:"usageIndicator"`      // ISA15
}

type InterchangeTrailer struct {
	FunctionalGroupCount string `json:"functionalGroupCount"` // IEA01
	ControlNumber        string `json:"controlNumber"`        // IEA02
}

type FunctionalGroupHeader struct {
	IdentifierCode        string `json:"functionalIdentifierCode"` // GS01
	ApplicationSender     string `json:"applicationSenderCode"`    // GS02
	ApplicationReceiver   string `json:"applicationReceiverCode"`  // GS03
	Date                  string `json:"date"`                     // GS04
	Time                  string `json:"time"`                     // GS05
	ControlNumber         string `json:"controlNumber"`            // GS06
	ResponsibleAgencyCode string `json:"responsibleAgencyCode"`    // GS07
	Version               string `json:"versionCode"`              // GS08
}

// Header returns the ISA segment as an InterchangeHeader, or nil if the
// message has no ISA segment.
func (r *RawMessage) Header() *InterchangeHeader {
	seg, ok := firstSegment(r.segments, isaSegmentId)
	if !ok {
		return nil
	}
	return &InterchangeHeader{
		SenderIdQualifier:   seg.GetTrimmed(isaIndexSenderIdQualifier),
		SenderId:            seg.GetTrimmed(isaIndexSenderId),
		ReceiverIdQualifier: seg.GetTrimmed(isaIndexReceiverIdQualifier),
		ReceiverId:          seg.GetTrimmed(isaIndexReceiverId),
		Date:                seg.GetTrimmed(isaIndexDate),
		Time:                seg.GetTrimmed(isaIndexTime),
		Version:             seg.GetTrimmed(isaIndexVersion),
		ControlNumber:       seg.GetTrimmed(isaIndexControlNumber),
		UsageIndicator:      seg.GetTrimmed(isaIndexUsageIndicator),
	}
}

// Trailer returns the IEA segment as an InterchangeTrailer, or nil if
// the message has no IEA segment.
func (r *RawMessage) Trailer() *InterchangeTrailer {
	seg, ok := firstSegment(r.segments, ieaSegmentId)
	if !ok {
		return nil
	}
	return &InterchangeTrailer{
		FunctionalGroupCount: seg.Get(ieaIndexFunctionalGroupCount),
		ControlNumber:        seg.Get(ieaIndexControlNumber),
	}
}

// GroupHeader returns the first GS segment as a FunctionalGroupHeader,
// or nil if the message has no GS segment.
func (r *RawMessage) GroupHeader() *FunctionalGroupHeader {
	seg, ok := firstSegment(r.segments, gsSegmentId)
	if !ok {
		return nil
	}
	return &FunctionalGroupHeader{
		IdentifierCode:        seg.Get(gsIndexFunctionalIdentifierCode),
		ApplicationSender:     seg.Get(gsIndexSenderCode),
		ApplicationReceiver:   seg.Get(gsIndexReceiverCode),
		Date:                  seg.Get(gsIndexDate),
		Time:                  seg.Get(gsIndexTime),
		ControlNumber:         seg.Get(gsIndexControlNumber),
		ResponsibleAgencyCode: seg.Get(gsIndexResponsibleAgencyCode),
		Version:               seg.Get(gsIndexVersion),
	}
}
