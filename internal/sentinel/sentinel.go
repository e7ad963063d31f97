package sentinel

var _ error = Error("")

// Error is a string-backed error that can be declared as a const.
// errors.Is compares Error values with ==, so wrapped sentinels still match.
type Error string

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}
