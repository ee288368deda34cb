package booking

import "venuehub/internal/domain"

const DefaultServiceFeePercent = 5

// Quote is what a planner is charged for a hall over a number of days.
type Quote struct {
	Subtotal   int64 `json:"subtotal"`
	ServiceFee int64 `json:"service_fee"`
	Total      int64 `json:"total"`
	Deposit    int64 `json:"deposit"`
	Balance    int64 `json:"balance"`
}

func QuoteFor(hall domain.Hall, days int, feePercent int) Quote {
	subtotal := hall.Price * int64(days)
	fee := percentOf(subtotal, feePercent)
	total := subtotal + fee
	deposit, balance := SplitDeposit(total, hall.DepositPercentage)
	return Quote{
		Subtotal:   subtotal,
		ServiceFee: fee,
		Total:      total,
		Deposit:    deposit,
		Balance:    balance,
	}
}

// SplitDeposit rounds the deposit half-up; the balance absorbs the remainder,
// so deposit + balance == total always holds.
func SplitDeposit(total int64, depositPercentage int) (deposit, balance int64) {
	pct := min(max(depositPercentage, 0), 100)
	deposit = percentOf(total, pct)
	return deposit, total - deposit
}

func percentOf(amount int64, pct int) int64 {
	if amount <= 0 || pct <= 0 {
		return 0
	}
	return (amount*int64(pct) + 50) / 100
}
