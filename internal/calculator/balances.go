package calculator

// ExpenseForBalance carries the minimal expense information needed for
// balance aggregation: who paid, how much, and the already-computed
// per-participant shares (shares are read from stored records, never
// recomputed here).
type ExpenseForBalance struct {
	PaidBy      string
	AmountMinor int64
	Shares      []Share
}

// SettlementForBalance is a recorded payment between trip members.
type SettlementForBalance struct {
	FromUserID  string // who paid (debtor settling up)
	ToUserID    string // who received (creditor being paid)
	AmountMinor int64
}

// MemberBalance is one trip member's aggregated position.
type MemberBalance struct {
	UserID    string
	PaidMinor int64 // total paid across all expenses
	OwedMinor int64 // total of this member's shares
	NetMinor  int64 // PaidMinor - OwedMinor; positive = is owed money
}

// DebtEdge is a suggested payment from one member to another.
type DebtEdge struct {
	From        string
	To          string
	AmountMinor int64
}

// CalculateTripBalances aggregates a trip's expenses and settlements
// into per-member balances plus a simplified debt list.
//
// For each expense the payer contributed the full amount and each
// participant owes their share; settlements move paid/owed the same
// way. Debts are simplified by greedily matching debtors against
// creditors, which keeps the suggested-payment list short.
func CalculateTripBalances(expenses []ExpenseForBalance, settlements []SettlementForBalance) ([]MemberBalance, []DebtEdge) {
	balances := make(map[string]*MemberBalance)
	var order []string

	touch := func(userID string) *MemberBalance {
		if b, ok := balances[userID]; ok {
			return b
		}
		b := &MemberBalance{UserID: userID}
		balances[userID] = b
		order = append(order, userID)
		return b
	}

	for _, e := range expenses {
		// Expenses without a recorded payer cannot move balances.
		if e.PaidBy == "" {
			continue
		}
		touch(e.PaidBy).PaidMinor += e.AmountMinor
		for _, share := range e.Shares {
			touch(share.ParticipantID).OwedMinor += share.AmountMinor
		}
	}

	for _, s := range settlements {
		touch(s.FromUserID).PaidMinor += s.AmountMinor
		touch(s.ToUserID).OwedMinor += s.AmountMinor
	}

	members := make([]MemberBalance, 0, len(order))
	for _, userID := range order {
		b := balances[userID]
		b.NetMinor = b.PaidMinor - b.OwedMinor
		members = append(members, *b)
	}

	return members, simplifyDebts(members)
}

// simplifyDebts greedily matches members who owe money against members
// who are owed, walking both lists in stable member order.
func simplifyDebts(members []MemberBalance) []DebtEdge {
	var debtors, creditors []MemberBalance
	for _, m := range members {
		if m.NetMinor < 0 {
			debtors = append(debtors, m)
		} else if m.NetMinor > 0 {
			creditors = append(creditors, m)
		}
	}

	var edges []DebtEdge
	i, j := 0, 0
	var debtorRemaining, creditorRemaining int64
	for i < len(debtors) && j < len(creditors) {
		if debtorRemaining == 0 {
			debtorRemaining = -debtors[i].NetMinor
		}
		if creditorRemaining == 0 {
			creditorRemaining = creditors[j].NetMinor
		}

		amount := debtorRemaining
		if creditorRemaining < amount {
			amount = creditorRemaining
		}
		if amount > 0 {
			edges = append(edges, DebtEdge{
				From:        debtors[i].UserID,
				To:          creditors[j].UserID,
				AmountMinor: amount,
			})
		}

		debtorRemaining -= amount
		creditorRemaining -= amount
		if debtorRemaining == 0 {
			i++
		}
		if creditorRemaining == 0 {
			j++
		}
	}
	return edges
}
