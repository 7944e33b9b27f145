// Package domain defines the core types of the SMS gateway: the inbound
// send request, the stored user profile, the closed set of invocation
// outcomes, and the interfaces implemented by external collaborators
// (profile stores and the SMS provider).
package domain

// SendRequest is the parsed body of one inbound send invocation. It is
// transient: nothing from it survives the invocation that carried it.
type SendRequest struct {
	// UserID identifies the requesting user. Format: digits only,
	// 8 to 12 characters.
	UserID string `json:"user_id"`

	// Message is the text to deliver. At most 80 bytes UTF-8 encoded.
	Message string `json:"message"`

	// PhoneNumbers optionally overrides the profile's default
	// recipients. When non-empty it is used verbatim and in order.
	PhoneNumbers []string `json:"phone_numbers"`
}
