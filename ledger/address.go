package ledger

import "regexp"

var rAddressReg = regexp.MustCompile("^r[1-9a-km-zA-HJ-NP-Z]{24,34}$")

// IsValidAddress check classic address format
func IsValidAddress(addr string) bool {
	return rAddressReg.MatchString(addr)
}

// CheckAddress returns a ValidationError naming the field if addr is malformed
func CheckAddress(field, addr string) error {
	if addr == "" {
		return Validation("missing_"+field, "%v is empty", field)
	}
	if !IsValidAddress(addr) {
		return Validation("bad_"+field, "%v %v is not a valid address", field, addr)
	}
	return nil
}
