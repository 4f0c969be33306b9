package ledger

import "errors"

var (
	// ErrInsufficientFunds: the account's bank holds nothing to back new notes.
	ErrInsufficientFunds = errors.New("no funds in the land bank to issue notes")

	// ErrLimitExceeded: the request is over the per-issuance maximum.
	ErrLimitExceeded = errors.New("issuance exceeds the per-issuance maximum")

	// ErrInvalidCount: a non-positive note count.
	ErrInvalidCount = errors.New("note count must be positive")

	// ErrNotANote: the presented token carries no note metadata.
	ErrNotANote = errors.New("not a valid currency note")

	// ErrNotRedeemable: the note has no expiry date or has not expired yet.
	ErrNotRedeemable = errors.New("note is not redeemable before its expiry date")

	// ErrNothingToRedeem: the account has no notes in circulation.
	ErrNothingToRedeem = errors.New("no notes registered for this land")

	// ErrPaymentFailed: the external credit was rejected; the redemption was
	// compensated and the note left untouched.
	ErrPaymentFailed = errors.New("payment failed, redemption reverted")

	// ErrExternalUnavailable: the external ownership/bank object or the
	// needed capability could not be found.
	ErrExternalUnavailable = errors.New("external banking service unavailable")
)
