// Package gateway implements the single-pass send pipeline: structural
// validation, profile resolution, source-IP authorization, recipient
// selection, and dispatch. Each invocation produces exactly one outcome.
package gateway

import (
	"fmt"
	"strings"

	"github.com/naviai/smsgate/internal/domain"
)

// Violation is a failed validation rule. Detail is operator-log-only and
// must never reach a client response.
type Violation struct {
	Outcome domain.Outcome
	Detail  string
}

// maxMessageBytes is the UTF-8 encoded length limit for the message body.
const maxMessageBytes = 80

// Validate checks the request against the gateway's format rules and
// returns the first violated rule, or nil when the request is well formed.
// It is a pure function: no I/O, deterministic in its inputs. Rules are
// evaluated in fixed order and short-circuit on the first failure:
//
//  1. user_id and message present; user_id digits only, 8-12 characters
//  2. message at most 80 bytes UTF-8
//  3. every request phone number matches the accepted prefix policy
func Validate(req domain.SendRequest, allowedPrefixes []string) *Violation {
	if req.UserID == "" || req.Message == "" || !validUserID(req.UserID) {
		return &Violation{
			Outcome: domain.OutcomeInvalidUserID,
			Detail:  fmt.Sprintf("user_id of length %d failed format check", len(req.UserID)),
		}
	}

	if len(req.Message) > maxMessageBytes {
		return &Violation{
			Outcome: domain.OutcomeMessageTooLong,
			Detail:  fmt.Sprintf("message is %d bytes, limit %d", len(req.Message), maxMessageBytes),
		}
	}

	for _, pn := range req.PhoneNumbers {
		if !matchesPrefix(pn, allowedPrefixes) {
			return &Violation{
				Outcome: domain.OutcomeInvalidPhoneNumber,
				Detail:  fmt.Sprintf("phone number %q does not match the accepted prefixes", pn),
			}
		}
	}

	return nil
}

// validUserID reports whether s is 8 to 12 ASCII digits.
func validUserID(s string) bool {
	if len(s) < 8 || len(s) > 12 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// matchesPrefix reports whether pn starts with any of the accepted prefixes.
func matchesPrefix(pn string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(pn, p) {
			return true
		}
	}
	return false
}
