package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// PeriodFromHz returns the period of a requested rate. 0 Hz means no period.
func PeriodFromHz(freqHz uint32) time.Duration {
	if freqHz == 0 {
		return 0
	}
	return time.Second / time.Duration(freqHz)
}
