package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

// Generic kinds.
const (
	NotFound        = ErrorKind("Not Found")
	InvalidArgument = ErrorKind("Invalid Argument")
	InternalError   = ErrorKind("Internal Error")
	Unsupported     = ErrorKind("Unsupported")
	Overflow        = ErrorKind("Overflow")
)

// Admission kinds: reject a purchase before any state mutation.
const (
	SaleNotOpen    = ErrorKind("sale not open")
	InvalidTier    = ErrorKind("invalid tier")
	DuplicateBuyer = ErrorKind("buyer already exists")
	BelowMinimum   = ErrorKind("amount too low")
	AboveMaximum   = ErrorKind("amount too high")
)

// Capacity kinds.
const (
	SupplyExhausted = ErrorKind("tier supply exhausted")
	CapExceeded     = ErrorKind("hard cap exceeded")
)

// Vesting kinds: reject a claim or toll-bridge call.
const (
	VestingNotStarted = ErrorKind("vesting not started")
	NoAllocation      = ErrorKind("no allocation")
	NoClaimableAmount = ErrorKind("no claimable amount")
	NoTokenLedger     = ErrorKind("token ledger not linked")
)

// Authorization and treasury kinds.
const (
	Unauthorized     = ErrorKind("unauthorized")
	InsufficientPool = ErrorKind("insufficient pool balance")
	AlreadyLinked    = ErrorKind("referral already linked")
	AlreadyEnded     = ErrorKind("sale already ended")
	AlreadySet       = ErrorKind("already set")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
