package churn

import "fmt"

// ageBand is a left-open, right-closed age interval (lo, hi].
type ageBand struct {
	lo, hi float64
	label  string
}

var ageBands = []ageBand{
	{17, 30, "18-30"},
	{30, 40, "31-40"},
	{40, 50, "41-50"},
	{50, 60, "51-60"},
	{60, 70, "61-70"},
	{70, 120, "71+"},
}

// AgeGroup bins a customer age into the fixed six-band scheme. Ages outside
// every band are dropped from age breakdowns.
func AgeGroup(age float64) (string, bool) {
	for _, b := range ageBands {
		if age > b.lo && age <= b.hi {
			return b.label, true
		}
	}
	return "", false
}

// tenureBand is a half-open tenure interval [lo, hi) in months.
type tenureBand struct {
	lo, hi float64
	label  string
}

var tenureBands = []tenureBand{
	{0, 12, "0-1yr"},
	{12, 24, "1-2yr"},
	{24, 36, "2-3yr"},
	{36, 48, "3-4yr"},
	{48, 60, "4-5yr"},
	{60, 72, "5-6yr"},
	{72, 84, "6-7yr"},
	{84, 96, "7-8yr"},
	{96, 108, "8-9yr"},
	{108, 120, "9-10yr"},
	{120, 9999, "10yr+"},
}

// TenureGroup bins tenure months into the fixed yearly bands up to 10+ years.
func TenureGroup(months float64) (string, bool) {
	for _, b := range tenureBands {
		if months >= b.lo && months < b.hi {
			return b.label, true
		}
	}
	return "", false
}

// TenureBucketCount returns how many 12-month chart buckets cover tenures
// from zero through maxMonths.
func TenureBucketCount(maxMonths float64) int {
	if maxMonths < 0 {
		return 0
	}
	return int(maxMonths)/12 + 1
}

// TenureBucket assigns tenure months to a 12-month chart bucket index.
// Buckets are half-open [12k, 12k+12).
func TenureBucket(months float64) (int, bool) {
	if months < 0 {
		return 0, false
	}
	return int(months) / 12, true
}

// TenureBucketLabel renders the chart bucket label for index k, e.g. "2-3yr".
func TenureBucketLabel(k int) string {
	return fmt.Sprintf("%d-%dyr", k, k+1)
}
