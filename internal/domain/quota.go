package domain

// UnlimitedDailyLimit is the sentinel for "no daily cap".
const UnlimitedDailyLimit = -1

const (
	DefaultDailyLimit    = 100
	DefaultMaxPerRequest = 50
)

// QuotaRecord tracks a user's consumption against their limits. Counters are
// monotonic: allocation only increments them, Reset is the only way down.
type QuotaRecord struct {
	DailyLimit    int
	Used          int
	UsedFromPool1 int
	UsedFromPool2 int
	MaxPerRequest int
}

func DefaultQuota() QuotaRecord {
	return QuotaRecord{
		DailyLimit:    DefaultDailyLimit,
		MaxPerRequest: DefaultMaxPerRequest,
	}
}

func (q QuotaRecord) Unlimited() bool {
	return q.DailyLimit < 0
}

// Remaining returns the allowance left today, or UnlimitedDailyLimit when
// the record is unlimited.
func (q QuotaRecord) Remaining() int {
	if q.Unlimited() {
		return UnlimitedDailyLimit
	}

	remaining := q.DailyLimit - q.Used
	if remaining < 0 {
		return 0
	}

	return remaining
}

// CheckRequest validates a requested total against the record without
// mutating it. Commit happens separately, after the pool take succeeds, so a
// request that loses the inventory race is never charged.
func (q QuotaRecord) CheckRequest(total int) error {
	if q.MaxPerRequest > 0 && total > q.MaxPerRequest {
		return ErrRequestTooLarge
	}
	if q.Unlimited() {
		return nil
	}
	if total > q.DailyLimit-q.Used {
		return ErrQuotaExceeded
	}

	return nil
}

// Commit records a successful draw. Callers must invoke it exactly once per
// allocation; it is not idempotent.
func (q *QuotaRecord) Commit(count1, count2 int) {
	q.Used += count1 + count2
	q.UsedFromPool1 += count1
	q.UsedFromPool2 += count2
}

func (q *QuotaRecord) Reset() {
	q.Used = 0
	q.UsedFromPool1 = 0
	q.UsedFromPool2 = 0
}

// Consistent reports whether the per-pool breakdown sums to the total.
func (q QuotaRecord) Consistent() bool {
	return q.Used == q.UsedFromPool1+q.UsedFromPool2
}
