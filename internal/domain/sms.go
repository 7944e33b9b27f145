package domain

import "context"

// SMSSender delivers one text message to one phone number through the
// external messaging provider. Implementations do not retry; a single
// failed attempt surfaces as an error to the caller.
type SMSSender interface {
	Send(ctx context.Context, phoneNumber, text string) error
}
