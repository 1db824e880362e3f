// validate/reason.go
package validate

import "errors"

// ErrInvalid is matched (via errors.Is) by every error returned from Verdict.Err.
var ErrInvalid = errors.New("validate: invalid email")

// Reason identifies which check rejected a candidate address.
// The zero value means the address passed every check.
type Reason string

const (
	ReasonNone                  Reason = ""
	ReasonEmpty                 Reason = "empty"
	ReasonAtCount               Reason = "at_count"
	ReasonEmptyLocal            Reason = "empty_local"
	ReasonEmptyDomain           Reason = "empty_domain"
	ReasonLocalDotEdge          Reason = "local_dot_edge"
	ReasonDomainDotEdge         Reason = "domain_dot_edge"
	ReasonLocalConsecutiveDots  Reason = "local_consecutive_dots"
	ReasonDomainConsecutiveDots Reason = "domain_consecutive_dots"
	ReasonLocalChar             Reason = "local_char"
	ReasonDomainNoDot           Reason = "domain_no_dot"
	ReasonLabelEmpty            Reason = "label_empty"
	ReasonLabelHyphen           Reason = "label_hyphen"
	ReasonLabelChar             Reason = "label_char"
	ReasonShortTLD              Reason = "short_tld"
	ReasonTooLong               Reason = "too_long"
	ReasonDigits                Reason = "digits"
)

// Reasons lists every failure reason in check order.
// Useful for pre-registering metric label values.
var Reasons = []Reason{
	ReasonEmpty,
	ReasonAtCount,
	ReasonEmptyLocal,
	ReasonEmptyDomain,
	ReasonLocalDotEdge,
	ReasonDomainDotEdge,
	ReasonLocalConsecutiveDots,
	ReasonDomainConsecutiveDots,
	ReasonLocalChar,
	ReasonDomainNoDot,
	ReasonLabelEmpty,
	ReasonLabelHyphen,
	ReasonLabelChar,
	ReasonShortTLD,
	ReasonTooLong,
	ReasonDigits,
}

// String returns the reason code, or "ok" for ReasonNone.
func (r Reason) String() string {
	if r == ReasonNone {
		return "ok"
	}
	return string(r)
}

// Failure is the error form of a rejected Verdict.
type Failure struct {
	Reason  Reason
	Message string
}

func (f *Failure) Error() string { return f.Message }

// Unwrap lets errors.Is(err, ErrInvalid) succeed for any Failure.
func (f *Failure) Unwrap() error { return ErrInvalid }
