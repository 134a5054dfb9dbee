package x12claims

// ClaimDocument is the semantic JSON rendering of an 837P claim file.
// The field names form the output wire contract; consumers key on them,
// so they never change casing or spelling. Optional sub-objects are
// pointers and omitted when absent; top-level sections are always
// present even when empty.
type ClaimDocument struct {
	Metadata        Metadata        `json:"metadata"`
	Interchange     Interchange     `json:"interchange"`
	FunctionalGroup FunctionalGroup `json:"functionalGroup"`
	TransactionSet  TransactionSet  `json:"transactionSet"`

	BeginningOfHierarchicalTransaction HierarchicalTransaction `json:"beginningOfHierarchicalTransaction"`

	Submitter     Submitter     `json:"submitter"`
	Receiver      Receiver      `json:"receiver"`
	Providers     []Provider    `json:"providers"`
	Subscribers   []Subscriber  `json:"subscribers"`
	Claims        []Claim       `json:"claims"`
	ControlTotals ControlTotals `json:"controlTotals"`
}

// Metadata describes the conversion itself rather than the claim.
type Metadata struct {
	TransactionSet      string `json:"transactionSet,omitempty"`
	TransactionType     string `json:"transactionType"`
	Version             string `json:"version,omitempty"`
	ConversionTimestamp string `json:"conversionTimestamp"`
	SourceFile          string `json:"sourceFile"`
}

// Interchange is the ISA header, with dates and times reformatted.
type Interchange struct {
	SenderId          string `json:"senderId,omitempty"`
	SenderQualifier   string `json:"senderQualifier,omitempty"`
	ReceiverId        string `json:"receiverId,omitempty"`
	ReceiverQualifier string `json:"receiverQualifier,omitempty"`
	Date              string `json:"date,omitempty"`
	Time              string `json:"time,omitempty"`
	ControlNumber     string `json:"controlNumber,omitempty"`
	VersionNumber     string `json:"versionNumber,omitempty"`
	TestIndicator     string `json:"testIndicator,omitempty"`
}

// FunctionalGroup is the GS header.
type FunctionalGroup struct {
	FunctionalCode      string `json:"functionalCode,omitempty"`
	ApplicationSender   string `json:"applicationSender,omitempty"`
	ApplicationReceiver string `json:"applicationReceiver,omitempty"`
	Date                string `json:"date,omitempty"`
	Time                string `json:"time,omitempty"`
	ControlNumber       string `json:"controlNumber,omitempty"`
	ResponsibleAgency   string `json:"responsibleAgency,omitempty"`
	Version             string `json:"version,omitempty"`
}

// TransactionSet is the ST header.
type TransactionSet struct {
	ControlNumber       string `json:"controlNumber,omitempty"`
	ImplementationGuide string `json:"implementationGuide,omitempty"`
}

// HierarchicalTransaction is the BHT segment.
type HierarchicalTransaction struct {
	StructureCode       string `json:"structureCode,omitempty"`
	PurposeCode         string `json:"purposeCode,omitempty"`
	ReferenceId         string `json:"referenceId,omitempty"`
	Date                string `json:"date,omitempty"`
	Time                string `json:"time,omitempty"`
	TransactionTypeCode string `json:"transactionTypeCode,omitempty"`
}

// Contact is the PER segment following a submitter NM1.
type Contact struct {
	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Extension string `json:"extension,omitempty"`
}

// Submitter is the NM1*41 entity, with its optional PER contact.
type Submitter struct {
	OrganizationName    string   `json:"organizationName,omitempty"`
	IdentifierCode      string   `json:"identifierCode,omitempty"`
	IdentifierQualifier string   `json:"identifierQualifier,omitempty"`
	Contact             *Contact `json:"contact,omitempty"`
}

// Receiver is the NM1*40 entity.
type Receiver struct {
	OrganizationName    string `json:"organizationName,omitempty"`
	IdentifierCode      string `json:"identifierCode,omitempty"`
	IdentifierQualifier string `json:"identifierQualifier,omitempty"`
}

// Address accumulates across N3 (street) and N4 (city, state, zip).
type Address struct {
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`
}

// Organization is the billing provider's NM1*85 identity, with the tax
// id picked up from a REF*EI in the same loop.
type Organization struct {
	Name  string `json:"name,omitempty"`
	Npi   string `json:"npi,omitempty"`
	TaxId string `json:"taxId,omitempty"`
}

// Provider is one billing-provider loop (HL level 20).
type Provider struct {
	HierarchicalLevel string        `json:"hierarchicalLevel,omitempty"`
	LevelCode         string        `json:"levelCode,omitempty"`
	HasChildren       bool          `json:"hasChildren"`
	ProviderType      string        `json:"providerType"`
	Organization      *Organization `json:"organization,omitempty"`
	Address           *Address      `json:"address,omitempty"`
}

// Demographics is the DMG segment's birth date and gender.
type Demographics struct {
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

// Patient is the insured party (NM1*IL) within a subscriber loop.
type Patient struct {
	LastName     string        `json:"lastName,omitempty"`
	FirstName    string        `json:"firstName,omitempty"`
	MiddleName   string        `json:"middleName,omitempty"`
	MemberId     string        `json:"memberId,omitempty"`
	Address      *Address      `json:"address,omitempty"`
	Demographics *Demographics `json:"demographics,omitempty"`
}

// Payer is the NM1*PR entity within a subscriber loop.
type Payer struct {
	Name                string `json:"name,omitempty"`
	PayerId             string `json:"payerId,omitempty"`
	IdentifierQualifier string `json:"identifierQualifier,omitempty"`
}

// Subscriber is one subscriber loop (HL level 22).
type Subscriber struct {
	HierarchicalLevel    string   `json:"hierarchicalLevel,omitempty"`
	ParentLevel          string   `json:"parentLevel,omitempty"`
	LevelCode            string   `json:"levelCode,omitempty"`
	HasChildren          bool     `json:"hasChildren"`
	PayerResponsibility  string   `json:"payerResponsibility,omitempty"`
	RelationshipCode     string   `json:"relationshipCode,omitempty"`
	ClaimFilingIndicator string   `json:"claimFilingIndicator,omitempty"`
	Patient              *Patient `json:"patient,omitempty"`
	Payer                *Payer   `json:"payer,omitempty"`
}

// ClaimDates holds the admission and discharge dates from claim-level
// DTP segments.
type ClaimDates struct {
	AdmissionDate string `json:"admissionDate,omitempty"`
	DischargeDate string `json:"dischargeDate,omitempty"`
}

// Diagnosis is one qualifier/code pair from an HI composite.
type Diagnosis struct {
	Code     string `json:"code"`
	CodeType string `json:"codeType"`
}

// DiagnosisSet splits the claim's diagnoses into the principal (the
// first composite seen) and everything after it.
type DiagnosisSet struct {
	Principal  *Diagnosis  `json:"principal,omitempty"`
	Additional []Diagnosis `json:"additional"`
}

// Procedure is the SV1 composite procedure identifier, with a
// description attached when the code is a known one.
type Procedure struct {
	Code        string `json:"code,omitempty"`
	CodeType    string `json:"codeType,omitempty"`
	Description string `json:"description"`
}

// ServiceLine is one LX loop: a line number plus the SV1 detail and the
// DTP*472 service date that follow it.
type ServiceLine struct {
	LineNumber     *int       `json:"lineNumber"`
	Procedure      *Procedure `json:"procedure,omitempty"`
	ChargeAmount   float64    `json:"chargeAmount"`
	Unit           string     `json:"unit,omitempty"`
	Quantity       float64    `json:"quantity"`
	PlaceOfService string     `json:"placeOfService,omitempty"`
	ServiceDate    string     `json:"serviceDate,omitempty"`
}

// Claim is one CLM loop with its dates, diagnoses and service lines.
type Claim struct {
	ClaimId              string        `json:"claimId,omitempty"`
	TotalChargeAmount    float64       `json:"totalChargeAmount"`
	PlaceOfService       string        `json:"placeOfService,omitempty"`
	ClaimFrequency       string        `json:"claimFrequency,omitempty"`
	ProviderSignature    string        `json:"providerSignature,omitempty"`
	AssignmentOfBenefits string        `json:"assignmentOfBenefits,omitempty"`
	ReleaseOfInformation string        `json:"releaseOfInformation,omitempty"`
	PatientSignature     string        `json:"patientSignature,omitempty"`
	Dates                *ClaimDates   `json:"dates,omitempty"`
	AdmissionType        string        `json:"admissionType,omitempty"`
	AdmissionSource      string        `json:"admissionSource,omitempty"`
	PatientStatus        string        `json:"patientStatus,omitempty"`
	Diagnoses            *DiagnosisSet `json:"diagnoses,omitempty"`
	ServiceLines         []ServiceLine `json:"serviceLines"`
}

// ControlTotals carries the declared trailer counts. The counts are
// pointers so that an unparseable count renders as null rather than
// zero; the values are reported as declared, never recomputed.
type ControlTotals struct {
	TransactionSegmentCount  *int   `json:"transactionSegmentCount"`
	FunctionalGroupCount     *int   `json:"functionalGroupCount"`
	InterchangeControlNumber string `json:"interchangeControlNumber,omitempty"`
}
