// validate/email.go
package validate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Verdict is the outcome of checking one candidate address.
type Verdict struct {
	Valid   bool
	Message string
	Reason  Reason

	// Offending is the rejected character for ReasonLocalChar and
	// ReasonLabelChar; zero otherwise.
	Offending rune
}

// Err returns nil for a valid Verdict and a *Failure otherwise.
func (v Verdict) Err() error {
	if v.Valid {
		return nil
	}
	return &Failure{Reason: v.Reason, Message: v.Message}
}

// Policy holds the tunable limits of the checker.
type Policy struct {
	// MinDigits is the minimum count of ASCII digits across the whole address.
	MinDigits int

	// MaxLength caps the trimmed address length in characters. 0 disables the cap.
	MaxLength int

	// ASCIIOnly restricts "alphanumeric" to [A-Za-z0-9]. When false, any
	// Unicode letter or number is accepted in the local part and labels.
	ASCIIOnly bool
}

// DefaultPolicy returns the stock limits: 3 digits, 254 characters, Unicode letters.
func DefaultPolicy() Policy {
	return Policy{
		MinDigits: 3,
		MaxLength: 254,
	}
}

// Checker applies a fixed Policy. It holds no mutable state and is safe for
// concurrent use.
type Checker struct {
	policy Policy
}

// New returns a Checker for p. Negative limits are treated as 0.
func New(p Policy) *Checker {
	if p.MinDigits < 0 {
		p.MinDigits = 0
	}
	if p.MaxLength < 0 {
		p.MaxLength = 0
	}
	return &Checker{policy: p}
}

// Policy returns the checker's policy.
func (c *Checker) Policy() Policy { return c.policy }

var defaultChecker = New(DefaultPolicy())

// Email checks s with DefaultPolicy.
func Email(s string) Verdict {
	return defaultChecker.Check(s)
}

// Check runs the ordered checks against s and reports the first violation.
// It is not an RFC 5322 validator. Structure is checked first (the '@'),
// then character sets, then the digit policy.
func (c *Checker) Check(s string) Verdict {
	email := strings.TrimFunc(s, isTrimmed)
	if email == "" {
		return fail(ReasonEmpty, 0, 0)
	}

	if strings.Count(email, "@") != 1 {
		return fail(ReasonAtCount, 0, 0)
	}

	local, domain, _ := strings.Cut(email, "@")
	if local == "" {
		return fail(ReasonEmptyLocal, 0, 0)
	}
	if domain == "" {
		return fail(ReasonEmptyDomain, 0, 0)
	}

	if hasDotEdge(local) {
		return fail(ReasonLocalDotEdge, 0, 0)
	}
	if hasDotEdge(domain) {
		return fail(ReasonDomainDotEdge, 0, 0)
	}

	if strings.Contains(local, "..") {
		return fail(ReasonLocalConsecutiveDots, 0, 0)
	}
	if strings.Contains(domain, "..") {
		return fail(ReasonDomainConsecutiveDots, 0, 0)
	}

	for _, r := range local {
		if !c.isLocalRune(r) {
			return fail(ReasonLocalChar, r, 0)
		}
	}

	if !strings.Contains(domain, ".") {
		return fail(ReasonDomainNoDot, 0, 0)
	}

	labels := strings.Split(domain, ".")
	for _, label := range labels {
		if label == "" {
			return fail(ReasonLabelEmpty, 0, 0)
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return fail(ReasonLabelHyphen, 0, 0)
		}
		for _, r := range label {
			if !c.isLabelRune(r) {
				return fail(ReasonLabelChar, r, 0)
			}
		}
	}

	if utf8.RuneCountInString(labels[len(labels)-1]) < 2 {
		return fail(ReasonShortTLD, 0, 0)
	}

	if limit := c.policy.MaxLength; limit > 0 && utf8.RuneCountInString(email) > limit {
		return fail(ReasonTooLong, 0, limit)
	}

	if countDigits(email) < c.policy.MinDigits {
		return fail(ReasonDigits, 0, c.policy.MinDigits)
	}

	return Verdict{Valid: true, Message: MessageValid}
}

// isTrimmed matches Unicode white space plus the ASCII file, group, record
// and unit separators (U+001C-U+001F), which are stripped from both ends.
func isTrimmed(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func fail(r Reason, offending rune, limit int) Verdict {
	return Verdict{
		Reason:    r,
		Message:   message(r, offending, limit),
		Offending: offending,
	}
}

func hasDotEdge(s string) bool {
	return s[0] == '.' || s[len(s)-1] == '.'
}

func (c *Checker) isAlnum(r rune) bool {
	if c.policy.ASCIIOnly {
		return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
	}
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

func (c *Checker) isLocalRune(r rune) bool {
	switch r {
	case '.', '_', '-', '+':
		return true
	}
	return c.isAlnum(r)
}

// Labels never contain '.', they are already split on it.
func (c *Checker) isLabelRune(r rune) bool {
	return r == '-' || c.isAlnum(r)
}

func countDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if '0' <= s[i] && s[i] <= '9' {
			n++
		}
	}
	return n
}
