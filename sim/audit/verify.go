package audit

import "fmt"

// VerifyReport summarizes verification of an audit chain.
type VerifyReport struct {
	OK       bool     `json:"ok"`
	Total    int      `json:"total"`
	LastTick int64    `json:"last_tick"`
	LastHash string   `json:"last_hash"`
	Errors   []string `json:"errors"`
}

// VerifyChain recomputes every record's digest and checks that ticks are
// strictly increasing. Any mismatch is evidence of tampering (or of a
// serialization change, which for audit purposes is the same thing).
func VerifyChain(records []Record) VerifyReport {
	report := VerifyReport{OK: true, Total: len(records)}

	prevTick := int64(-1)
	for i, r := range records {
		want, err := Digest(r)
		if err != nil {
			report.OK = false
			report.Errors = append(report.Errors, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		if want != r.SHA256 {
			report.OK = false
			report.Errors = append(report.Errors,
				fmt.Sprintf("record %d (tick %d): digest mismatch: stored %s, computed %s", i, r.Tick, r.SHA256, want))
		}
		if r.Tick <= prevTick {
			report.OK = false
			report.Errors = append(report.Errors,
				fmt.Sprintf("record %d: tick %d not after %d", i, r.Tick, prevTick))
		}
		prevTick = r.Tick
		report.LastTick = r.Tick
		report.LastHash = r.SHA256
	}
	return report
}
