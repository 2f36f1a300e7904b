package model

// Payout is the amount owed to one eligible wallet, in whole pool units.
type Payout struct {
	Wallet string `json:"wallet"`
	Amount int64  `json:"amount"`
}

// Result is the settlement output. Field order matters: payouts are
// serialized first and the attestation binds exactly that field.
type Result struct {
	Payouts     []Payout `json:"payouts"`
	Attestation string   `json:"tee_attestation"`
}

// Total returns the sum of all payout amounts.
func (r Result) Total() int64 {
	var sum int64
	for _, p := range r.Payouts {
		sum += p.Amount
	}
	return sum
}
