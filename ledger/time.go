package ledger

import "time"

// RippleEpochOffset is the unix timestamp of 2000-01-01T00:00:00Z
const RippleEpochOffset = 946684800

// ToRippleTime converts a UTC time to ledger epoch seconds
func ToRippleTime(t time.Time) (uint32, error) {
	secs := t.UTC().Unix() - RippleEpochOffset
	if secs < 0 || secs > int64(^uint32(0)) {
		return 0, Validation("bad_time", "time %v is outside the ledger epoch range", t.UTC().Format(time.RFC3339))
	}
	return uint32(secs), nil
}

// FromRippleTime converts ledger epoch seconds to UTC
func FromRippleTime(secs uint32) time.Time {
	return time.Unix(int64(secs)+RippleEpochOffset, 0).UTC()
}
