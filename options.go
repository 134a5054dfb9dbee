package x12claims

import "github.com/shopspring/decimal"

// Option configures a Validator or Mapper.
type Option func(*Options)

// Options holds tunable policy for the validator and mapper. The loop
// bounds are lookahead limits, not structural limits: a real file may
// legitimately exceed them, in which case the walk truncates.
type Options struct {
	// RelatedSegmentWindow bounds the scan for a segment immediately
	// related to another (e.g. the PER contact following a submitter
	// NM1, or the SV1 following an LX).
	RelatedSegmentWindow int
	// ProviderLoopBound bounds the billing-provider HL loop walk.
	ProviderLoopBound int
	// SubscriberLoopBound bounds the subscriber HL loop walk.
	SubscriberLoopBound int
	// ClaimLoopBound bounds the claim-level walk following a CLM.
	ClaimLoopBound int
	// ServiceLineWindow bounds the inner walk from an LX to its SV1
	// and service-date segments.
	ServiceLineWindow int

	// MinPlausibleYear and MaxPlausibleYear bound the sanity check on
	// D8 dates; years outside the range are flagged as warnings.
	MinPlausibleYear int
	MaxPlausibleYear int

	// ChargeTolerance is the allowed rounding difference between a
	// claim's total charge and the sum of its service-line charges
	// before a warning is raised.
	ChargeTolerance decimal.Decimal
}

// DefaultOptions returns the default policy.
func DefaultOptions() *Options {
	return &Options{
		RelatedSegmentWindow: defaultRelatedSegmentWindow,
		ProviderLoopBound:    defaultProviderLoopBound,
		SubscriberLoopBound:  defaultSubscriberLoopBound,
		ClaimLoopBound:       defaultClaimLoopBound,
		ServiceLineWindow:    defaultServiceLineWindow,

		MinPlausibleYear: minPlausibleYear,
		MaxPlausibleYear: maxPlausibleYear,

		ChargeTolerance: decimal.RequireFromString("0.01"),
	}
}

// WithRelatedSegmentWindow overrides the related-segment scan window.
func WithRelatedSegmentWindow(n int) Option {
	return func(o *Options) {
		o.RelatedSegmentWindow = n
	}
}

// WithProviderLoopBound overrides the provider loop lookahead bound.
func WithProviderLoopBound(n int) Option {
	return func(o *Options) {
		o.ProviderLoopBound = n
	}
}

// WithSubscriberLoopBound overrides the subscriber loop lookahead bound.
func WithSubscriberLoopBound(n int) Option {
	return func(o *Options) {
		o.SubscriberLoopBound = n
	}
}

// WithClaimLoopBound overrides the claim loop lookahead bound.
func WithClaimLoopBound(n int) Option {
	return func(o *Options) {
		o.ClaimLoopBound = n
	}
}

// WithServiceLineWindow overrides the service-line inner scan window.
func WithServiceLineWindow(n int) Option {
	return func(o *Options) {
		o.ServiceLineWindow = n
	}
}

// WithPlausibleYearRange overrides the year sanity-check range.
func WithPlausibleYearRange(min, max int) Option {
	return func(o *Options) {
		o.MinPlausibleYear = min
		o.MaxPlausibleYear = max
	}
}

// WithChargeTolerance overrides the claim-total rounding tolerance.
func WithChargeTolerance(tolerance decimal.Decimal) Option {
	return func(o *Options) {
		o.ChargeTolerance = tolerance
	}
}

func newOptions(opts ...Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}
