package domain

import "net/http"

// Outcome is the terminal result of one gateway invocation. Exactly one
// outcome is produced per invocation; it maps to an HTTP status code and an
// opaque, pre-approved client message. Response bodies never echo request
// or profile data.
type Outcome int

const (
	// OutcomeSuccess means every recipient send was attempted.
	OutcomeSuccess Outcome = iota

	// OutcomeInvalidUserID covers a missing user_id or message, a
	// non-digit user_id, or a user_id outside 8-12 characters.
	OutcomeInvalidUserID

	// OutcomeMessageTooLong means the message exceeds 80 UTF-8 bytes.
	OutcomeMessageTooLong

	// OutcomeInvalidPhoneNumber means a request recipient failed the
	// accepted prefix policy. The offending value is logged, never
	// returned to the client.
	OutcomeInvalidPhoneNumber

	// OutcomeUserNotFound means no profile exists for the user ID.
	OutcomeUserNotFound

	// OutcomeUnauthorizedSource means the caller's source IP is not
	// contained in any of the profile's allowed ranges.
	OutcomeUnauthorizedSource

	// OutcomeNoRecipients means both the request and the profile
	// recipient lists were empty.
	OutcomeNoRecipients

	// OutcomeInternalFault covers unexpected collaborator failures:
	// store transport errors, malformed stored data, an unparseable
	// trigger-supplied source IP.
	OutcomeInternalFault
)

// String returns the log identifier for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeInvalidUserID:
		return "invalid_user_id"
	case OutcomeMessageTooLong:
		return "message_too_long"
	case OutcomeInvalidPhoneNumber:
		return "invalid_phone_number"
	case OutcomeUserNotFound:
		return "user_not_found"
	case OutcomeUnauthorizedSource:
		return "unauthorized_source"
	case OutcomeNoRecipients:
		return "no_recipients"
	case OutcomeInternalFault:
		return "internal_fault"
	default:
		return "unknown"
	}
}

// StatusCode returns the HTTP status the outcome presents to the trigger.
// UserNotFound and UnauthorizedSource share a status (and a default body, see
// ClientMessage) so a probing client cannot tell an unknown ID from a
// disallowed source address.
func (o Outcome) StatusCode() int {
	switch o {
	case OutcomeSuccess:
		return http.StatusOK
	case OutcomeInvalidUserID, OutcomeMessageTooLong, OutcomeInvalidPhoneNumber, OutcomeNoRecipients:
		return http.StatusBadRequest
	case OutcomeUserNotFound, OutcomeUnauthorizedSource:
		return http.StatusTeapot
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the default opaque response body for the outcome.
// The numbered "invalid request format" texts are deliberately uninformative;
// which rule failed is operator-log-only. Deployments may override these per
// outcome via configuration.
func (o Outcome) ClientMessage() string {
	switch o {
	case OutcomeSuccess:
		return "Message sent successfully."
	case OutcomeInvalidUserID:
		return "invalid request format #1."
	case OutcomeMessageTooLong:
		return "invalid request format #2."
	case OutcomeInvalidPhoneNumber:
		return "invalid request format #3."
	case OutcomeNoRecipients:
		return "invalid request format #4."
	case OutcomeUserNotFound, OutcomeUnauthorizedSource:
		return "I'm a tea pot."
	default:
		return "Internal server error."
	}
}
