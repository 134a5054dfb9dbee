package x12claims

import (
	"strconv"
	"strings"
	"time"
)

// Mapper builds a semantic ClaimDocument from a tokenized 837P message.
// It is deliberately permissive where the validator is strict: missing
// segments yield empty sections, unparseable numbers yield zero or
// null, and dates that are the right length but not real calendar dates
// pass through reformatted. Validation is the validator's job; the
// mapper's job is to extract whatever structure is present.
type Mapper struct {
	opts *Options
}

// NewMapper creates a Mapper with the given options applied over the
// defaults.
func NewMapper(opts ...Option) *Mapper {
	return &Mapper{opts: newOptions(opts...)}
}

// Convert maps the message into a ClaimDocument. It never fails: any
// input that tokenized at all produces a document, however sparse.
func (m *Mapper) Convert(raw *RawMessage) *ClaimDocument {
	segments := raw.Segments()
	sub := string(raw.Delimiters.SubElement)
	return &ClaimDocument{
		Metadata:        m.mapMetadata(segments),
		Interchange:     m.mapInterchange(segments),
		FunctionalGroup: m.mapFunctionalGroup(segments),
		TransactionSet:  m.mapTransactionSet(segments),

		BeginningOfHierarchicalTransaction: m.mapHierarchicalTransaction(segments),

		Submitter:     m.mapSubmitter(segments),
		Receiver:      m.mapReceiver(segments),
		Providers:     m.mapProviders(segments),
		Subscribers:   m.mapSubscribers(segments),
		Claims:        m.mapClaims(segments, sub),
		ControlTotals: m.mapControlTotals(segments),
	}
}

func (m *Mapper) mapMetadata(segments []RawSegment) Metadata {
	metadata := Metadata{
		TransactionType:     "Professional Claim",
		ConversionTimestamp: time.Now().Format(time.RFC3339),
		SourceFile:          "X12 EDI Stream",
	}
	if st, ok := firstSegment(segments, stSegmentId); ok {
		metadata.TransactionSet = st.Get(stIndexTransactionSetCode)
		metadata.Version = st.Get(stIndexImplementationGuide)
	}
	return metadata
}

func (m *Mapper) mapInterchange(segments []RawSegment) Interchange {
	isa, ok := firstSegment(segments, isaSegmentId)
	if !ok {
		return Interchange{}
	}
	return Interchange{
		SenderId:          isa.GetTrimmed(isaIndexSenderId),
		SenderQualifier:   isa.GetTrimmed(isaIndexSenderIdQualifier),
		ReceiverId:        isa.GetTrimmed(isaIndexReceiverId),
		ReceiverQualifier: isa.GetTrimmed(isaIndexReceiverIdQualifier),
		Date:              formatDate(isa.Get(isaIndexDate)),
		Time:              formatTime(isa.Get(isaIndexTime)),
		ControlNumber:     isa.GetTrimmed(isaIndexControlNumber),
		VersionNumber:     isa.GetTrimmed(isaIndexVersion),
		TestIndicator:     isa.GetTrimmed(isaIndexUsageIndicator),
	}
}

func (m *Mapper) mapFunctionalGroup(segments []RawSegment) FunctionalGroup {
	gs, ok := firstSegment(segments, gsSegmentId)
	if !ok {
		return FunctionalGroup{}
	}
	return FunctionalGroup{
		FunctionalCode:      gs.Get(gsIndexFunctionalIdentifierCode),
		ApplicationSender:   gs.Get(gsIndexSenderCode),
		ApplicationReceiver: gs.Get(gsIndexReceiverCode),
		Date:                formatDate(gs.Get(gsIndexDate)),
		Time:                formatTime(gs.Get(gsIndexTime)),
		ControlNumber:       gs.Get(gsIndexControlNumber),
		ResponsibleAgency:   gs.Get(gsIndexResponsibleAgencyCode),
		Version:             gs.Get(gsIndexVersion),
	}
}

func (m *Mapper) mapTransactionSet(segments []RawSegment) TransactionSet {
	st, ok := firstSegment(segments, stSegmentId)
	if !ok {
		return TransactionSet{}
	}
	return TransactionSet{
		ControlNumber:       st.Get(stIndexControlNumber),
		ImplementationGuide: st.Get(stIndexImplementationGuide),
	}
}

func (m *Mapper) mapHierarchicalTransaction(
	segments []RawSegment,
) HierarchicalTransaction {
	bht, ok := firstSegment(segments, bhtSegmentId)
	if !ok {
		return HierarchicalTransaction{}
	}
	return HierarchicalTransaction{
		StructureCode:       bht.Get(bhtIndexStructureCode),
		PurposeCode:         bht.Get(bhtIndexPurposeCode),
		ReferenceId:         bht.Get(bhtIndexReferenceId),
		Date:                formatDate(bht.Get(bhtIndexDate)),
		Time:                formatTime(bht.Get(bhtIndexTime)),
		TransactionTypeCode: bht.Get(bhtIndexTransactionTypeCode),
	}
}

// findEntity returns the index of the first NM1 segment carrying the
// given entity identifier code, or -1.
func findEntity(segments []RawSegment, entityId string) int {
	for i, segment := range segments {
		if segment.ID() == nm1SegmentId &&
			segment.Get(nm1IndexEntityIdCode) == entityId {
			return i
		}
	}
	return -1
}

func (m *Mapper) mapSubmitter(segments []RawSegment) Submitter {
	i := findEntity(segments, entityIdSubmitter)
	if i < 0 {
		return Submitter{}
	}
	nm1 := segments[i]
	submitter := Submitter{
		OrganizationName:    nm1.Get(nm1IndexNameLastOrOrg),
		IdentifierCode:      nm1.Get(nm1IndexIdCode),
		IdentifierQualifier: nm1.Get(nm1IndexIdQualifier),
	}

	// The submitter's contact is only trusted if the PER sits close
	// enough to the NM1 to plausibly belong to it.
	if j := findSegment(segments, perSegmentId, i); j > i &&
		j < i+m.opts.RelatedSegmentWindow {
		per := segments[j]
		submitter.Contact = &Contact{
			Name:      per.Get(perIndexName),
			Phone:     per.Get(perIndexPhone),
			Extension: per.Get(perIndexExtension),
		}
	}
	return submitter
}

func (m *Mapper) mapReceiver(segments []RawSegment) Receiver {
	i := findEntity(segments, entityIdReceiver)
	if i < 0 {
		return Receiver{}
	}
	nm1 := segments[i]
	return Receiver{
		OrganizationName:    nm1.Get(nm1IndexNameLastOrOrg),
		IdentifierCode:      nm1.Get(nm1IndexIdCode),
		IdentifierQualifier: nm1.Get(nm1IndexIdQualifier),
	}
}

func (m *Mapper) mapProviders(segments []RawSegment) []Provider {
	providers := []Provider{}
	for i, segment := range segments {
		if segment.ID() != hlSegmentId ||
			segment.Get(hlIndexLevelCode) != hlLevelBillingProvider {
			continue
		}
		provider := Provider{
			HierarchicalLevel: segment.Get(hlIndexHierarchicalId),
			LevelCode:         segment.Get(hlIndexLevelCode),
			HasChildren:       segment.Get(hlIndexChildCode) == "1",
			ProviderType:      "billing",
		}

		loop := collectLoop(
			segments, i, []string{hlSegmentId}, m.opts.ProviderLoopBound,
		)
		for _, seg := range loop {
			switch seg.ID() {
			case nm1SegmentId:
				if seg.Get(nm1IndexEntityIdCode) != entityIdBillingProvider {
					continue
				}
				if provider.Organization == nil {
					provider.Organization = &Organization{}
				}
				provider.Organization.Name = seg.Get(nm1IndexNameLastOrOrg)
				provider.Organization.Npi = seg.Get(nm1IndexIdCode)
			case n3SegmentId:
				if provider.Address == nil {
					provider.Address = &Address{}
				}
				provider.Address.Street = seg.Get(n3IndexStreet)
			case n4SegmentId:
				if provider.Address == nil {
					provider.Address = &Address{}
				}
				provider.Address.City = seg.Get(n4IndexCity)
				provider.Address.State = seg.Get(n4IndexState)
				provider.Address.Zip = seg.Get(n4IndexZip)
			case refSegmentId:
				if seg.Get(refIndexQualifier) != refQualifierEmployerId {
					continue
				}
				if provider.Organization == nil {
					provider.Organization = &Organization{}
				}
				provider.Organization.TaxId = seg.Get(refIndexValue)
			}
		}
		providers = append(providers, provider)
	}
	return providers
}

func (m *Mapper) mapSubscribers(segments []RawSegment) []Subscriber {
	subscribers := []Subscriber{}
	for i, segment := range segments {
		if segment.ID() != hlSegmentId ||
			segment.Get(hlIndexLevelCode) != hlLevelSubscriber {
			continue
		}
		subscriber := Subscriber{
			HierarchicalLevel: segment.Get(hlIndexHierarchicalId),
			ParentLevel:       segment.Get(hlIndexParentId),
			LevelCode:         segment.Get(hlIndexLevelCode),
			HasChildren:       segment.Get(hlIndexChildCode) == "1",
		}

		patient := func() *Patient {
			if subscriber.Patient == nil {
				subscriber.Patient = &Patient{}
			}
			return subscriber.Patient
		}

		loop := collectLoop(
			segments, i, []string{hlSegmentId, clmSegmentId},
			m.opts.SubscriberLoopBound,
		)
		for _, seg := range loop {
			switch seg.ID() {
			case sbrSegmentId:
				subscriber.PayerResponsibility = decodePayerResponsibility(
					seg.Get(sbrIndexPayerResponsibility),
				)
				subscriber.RelationshipCode = seg.Get(sbrIndexRelationshipCode)
				subscriber.ClaimFilingIndicator = seg.Get(
					sbrIndexClaimFilingIndicator,
				)
			case nm1SegmentId:
				switch seg.Get(nm1IndexEntityIdCode) {
				case entityIdInsured:
					p := patient()
					p.LastName = seg.Get(nm1IndexNameLastOrOrg)
					p.FirstName = seg.Get(nm1IndexNameFirst)
					p.MiddleName = seg.Get(nm1IndexNameMiddle)
					p.MemberId = seg.Get(nm1IndexIdCode)
				case entityIdPayer:
					subscriber.Payer = &Payer{
						Name:                seg.Get(nm1IndexNameLastOrOrg),
						PayerId:             seg.Get(nm1IndexIdCode),
						IdentifierQualifier: seg.Get(nm1IndexIdQualifier),
					}
				}
			case n3SegmentId:
				p := patient()
				if p.Address == nil {
					p.Address = &Address{}
				}
				p.Address.Street = seg.Get(n3IndexStreet)
			case n4SegmentId:
				p := patient()
				if p.Address == nil {
					p.Address = &Address{}
				}
				p.Address.City = seg.Get(n4IndexCity)
				p.Address.State = seg.Get(n4IndexState)
				p.Address.Zip = seg.Get(n4IndexZip)
			case dmgSegmentId:
				p := patient()
				if p.Demographics == nil {
					p.Demographics = &Demographics{}
				}
				p.Demographics.DateOfBirth = formatDate(
					seg.Get(dmgIndexBirthDate),
				)
				p.Demographics.Gender = seg.Get(dmgIndexGender)
			}
		}
		subscribers = append(subscribers, subscriber)
	}
	return subscribers
}

func (m *Mapper) mapClaims(segments []RawSegment, sub string) []Claim {
	claims := []Claim{}
	for i, segment := range segments {
		if segment.ID() != clmSegmentId {
			continue
		}
		claim := Claim{
			ClaimId:           segment.Get(clmIndexClaimId),
			TotalChargeAmount: safeFloat(segment.Get(clmIndexChargeAmount)),
		}

		if facility := segment.Get(clmIndexFacilityInfo); facility != "" {
			parts := strings.Split(facility, sub)
			claim.PlaceOfService = parts[0]
			if len(parts) > 2 {
				claim.ClaimFrequency = parts[2]
			}
		}
		claim.ProviderSignature = segment.Get(clmIndexProviderSignature)
		claim.AssignmentOfBenefits = segment.Get(clmIndexAssignment)
		claim.ReleaseOfInformation = segment.Get(clmIndexRelease)
		claim.PatientSignature = segment.Get(clmIndexPatientSignature)

		loop := collectLoop(
			segments, i, []string{clmSegmentId, seSegmentId},
			m.opts.ClaimLoopBound,
		)
		for _, seg := range loop {
			switch seg.ID() {
			case dtpSegmentId:
				if claim.Dates == nil {
					claim.Dates = &ClaimDates{}
				}
				switch seg.Get(dtpIndexQualifier) {
				case dtpQualifierAdmission:
					claim.Dates.AdmissionDate = formatDate(
						seg.Get(dtpIndexDate),
					)
				case dtpQualifierStatementDates:
					// RD8 statement dates carry a CCYYMMDD-CCYYMMDD range.
					dateRange := strings.Split(seg.Get(dtpIndexDate), "-")
					if len(dateRange) == 2 {
						claim.Dates.AdmissionDate = formatDate(dateRange[0])
						claim.Dates.DischargeDate = formatDate(dateRange[1])
					}
				}
			case cl1SegmentId:
				claim.AdmissionType = seg.Get(cl1IndexAdmissionType)
				claim.AdmissionSource = seg.Get(cl1IndexAdmissionSource)
				claim.PatientStatus = seg.Get(cl1IndexPatientStatus)
			case hiSegmentId:
				if claim.Diagnoses == nil {
					claim.Diagnoses = &DiagnosisSet{Additional: []Diagnosis{}}
				}
				for k := 1; k < len(seg); k++ {
					parts := strings.Split(seg[k], sub)
					if len(parts) < 2 {
						continue
					}
					diagnosis := Diagnosis{Code: parts[1], CodeType: parts[0]}
					if claim.Diagnoses.Principal == nil {
						claim.Diagnoses.Principal = &diagnosis
					} else {
						claim.Diagnoses.Additional = append(
							claim.Diagnoses.Additional, diagnosis,
						)
					}
				}
			}
		}

		claim.ServiceLines = m.mapServiceLines(segments, i, sub)
		claims = append(claims, claim)
	}
	return claims
}

// mapServiceLines walks the LX loops belonging to the claim starting at
// claimStart. The outer scan stops only at the next CLM: service lines
// trail the claim-level segments, so the claim walk's other stop
// markers don't apply here.
func (m *Mapper) mapServiceLines(
	segments []RawSegment,
	claimStart int,
	sub string,
) []ServiceLine {
	serviceLines := []ServiceLine{}

	end := claimStart + m.opts.ClaimLoopBound
	if end > len(segments) {
		end = len(segments)
	}
	for i := claimStart; i < end; i++ {
		seg := segments[i]
		if seg.ID() == clmSegmentId && i != claimStart {
			break
		}
		if seg.ID() != lxSegmentId {
			continue
		}

		serviceLine := ServiceLine{
			LineNumber: permissiveInt(seg.Get(lxIndexLineNumber)),
		}
		detail := collectLoop(
			segments, i, []string{lxSegmentId}, m.opts.ServiceLineWindow,
		)
		for _, sv := range detail {
			switch sv.ID() {
			case sv1SegmentId:
				if procedure := sv.Get(sv1IndexProcedure); procedure != "" {
					parts := strings.Split(procedure, sub)
					p := &Procedure{CodeType: parts[0]}
					if len(parts) > 1 {
						p.Code = parts[1]
					}
					p.Description = procedureDescriptions[p.Code]
					serviceLine.Procedure = p
				}
				serviceLine.ChargeAmount = safeFloat(sv.Get(sv1IndexChargeAmount))
				serviceLine.Unit = sv.Get(sv1IndexUnit)
				serviceLine.Quantity = safeFloat(sv.Get(sv1IndexQuantity))
				serviceLine.PlaceOfService = sv.Get(sv1IndexPlaceOfService)
			case dtpSegmentId:
				if sv.Get(dtpIndexQualifier) == dtpQualifierServiceDate {
					serviceLine.ServiceDate = formatDate(sv.Get(dtpIndexDate))
				}
			}
		}
		serviceLines = append(serviceLines, serviceLine)
	}
	return serviceLines
}

func (m *Mapper) mapControlTotals(segments []RawSegment) ControlTotals {
	totals := ControlTotals{}
	if se, ok := firstSegment(segments, seSegmentId); ok {
		totals.TransactionSegmentCount = permissiveInt(
			se.Get(seIndexNumberOfIncludedSegments),
		)
	}
	if ge, ok := firstSegment(segments, geSegmentId); ok {
		totals.FunctionalGroupCount = permissiveInt(
			ge.Get(geIndexNumberOfIncludedTransactionSets),
		)
	}
	if iea, ok := firstSegment(segments, ieaSegmentId); ok {
		totals.InterchangeControlNumber = iea.Get(ieaIndexControlNumber)
	}
	return totals
}

// formatDate reformats a CCYYMMDD value as CCYY-MM-DD. Values shorter
// than eight characters yield an empty string; longer or non-numeric
// values are sliced and hyphenated as-is, without calendar validation.
func formatDate(date string) string {
	if len(date) < 8 {
		return ""
	}
	return date[0:4] + "-" + date[4:6] + "-" + date[6:8]
}

// formatTime reformats an HHMM value as HH:MM. Values shorter than four
// characters yield an empty string.
func formatTime(t string) string {
	if len(t) < 4 {
		return ""
	}
	return t[0:2] + ":" + t[2:4]
}

// safeFloat converts a numeric string to a float, yielding zero when
// the value doesn't parse.
func safeFloat(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0.0
	}
	return f
}

// permissiveInt converts a count string to an int, yielding nil (which
// renders as JSON null) when the value doesn't parse.
func permissiveInt(value string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil
	}
	return &n
}

// decodePayerResponsibility expands the SBR01 responsibility code.
// Unrecognized codes pass through unchanged.
func decodePayerResponsibility(code string) string {
	switch code {
	case "P":
		return "Primary"
	case "S":
		return "Secondary"
	case "T":
		return "Tertiary"
	}
	return code
}

// procedureDescriptions is a small lookup of common procedure codes.
// Unknown codes get an empty description.
var procedureDescriptions = map[string]string{
	"99213": "Office/outpatient visit, established patient",
	"80053": "Comprehensive metabolic panel",
	"85025": "Complete blood count",
}
