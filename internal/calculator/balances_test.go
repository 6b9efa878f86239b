package calculator

import "testing"

func TestCalculateTripBalances(t *testing.T) {
	// Alice pays 3000 split equally three ways; Bob pays 1500 split
	// equally between Bob and Carol.
	expenses := []ExpenseForBalance{
		{
			PaidBy:      "alice",
			AmountMinor: 3000,
			Shares: []Share{
				{ParticipantID: "alice", AmountMinor: 1000},
				{ParticipantID: "bob", AmountMinor: 1000},
				{ParticipantID: "carol", AmountMinor: 1000},
			},
		},
		{
			PaidBy:      "bob",
			AmountMinor: 1500,
			Shares: []Share{
				{ParticipantID: "bob", AmountMinor: 750},
				{ParticipantID: "carol", AmountMinor: 750},
			},
		},
	}

	members, edges := CalculateTripBalances(expenses, nil)

	want := map[string]int64{
		"alice": 2000,  // paid 3000, owes 1000
		"bob":   -250,  // paid 1500, owes 1750
		"carol": -1750, // paid 0, owes 1750
	}
	if len(members) != 3 {
		t.Fatalf("got %d members, want 3", len(members))
	}
	var netSum int64
	for _, m := range members {
		if m.NetMinor != want[m.UserID] {
			t.Errorf("%s net = %d, want %d", m.UserID, m.NetMinor, want[m.UserID])
		}
		netSum += m.NetMinor
	}
	if netSum != 0 {
		t.Errorf("net balances sum to %d, want 0", netSum)
	}

	// Every debt edge must point from a net debtor to a net creditor,
	// and settling all edges must zero the books: a paying debtor's net
	// rises toward zero, a receiving creditor's net falls toward zero.
	settled := make(map[string]int64)
	for _, e := range edges {
		if e.AmountMinor <= 0 {
			t.Errorf("edge %+v has non-positive amount", e)
		}
		settled[e.From] += e.AmountMinor
		settled[e.To] -= e.AmountMinor
	}
	for _, m := range members {
		if m.NetMinor+settled[m.UserID] != 0 {
			t.Errorf("%s not settled: net %d, edges move %d", m.UserID, m.NetMinor, settled[m.UserID])
		}
	}
}

func TestCalculateTripBalancesSettlements(t *testing.T) {
	expenses := []ExpenseForBalance{
		{
			PaidBy:      "alice",
			AmountMinor: 2000,
			Shares: []Share{
				{ParticipantID: "alice", AmountMinor: 1000},
				{ParticipantID: "bob", AmountMinor: 1000},
			},
		},
	}
	settlements := []SettlementForBalance{
		{FromUserID: "bob", ToUserID: "alice", AmountMinor: 1000},
	}

	members, edges := CalculateTripBalances(expenses, settlements)

	for _, m := range members {
		if m.NetMinor != 0 {
			t.Errorf("%s net = %d after settling up, want 0", m.UserID, m.NetMinor)
		}
	}
	if len(edges) != 0 {
		t.Errorf("expected no remaining debts, got %+v", edges)
	}
}

func TestCalculateTripBalancesSkipsPayerlessExpenses(t *testing.T) {
	expenses := []ExpenseForBalance{
		{
			PaidBy:      "",
			AmountMinor: 500,
			Shares:      []Share{{ParticipantID: "alice", AmountMinor: 500}},
		},
	}

	members, edges := CalculateTripBalances(expenses, nil)
	if len(members) != 0 || len(edges) != 0 {
		t.Errorf("payerless expense should not move balances, got members=%+v edges=%+v", members, edges)
	}
}
