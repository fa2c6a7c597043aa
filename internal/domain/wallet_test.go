package domain

import "testing"

func TestHasEntryMatchesByRoom(t *testing.T) {
	w := &WalletAccount{
		UID: "u1",
		Transactions: []LedgerEntry{
			{ID: "t1", Kind: EntryWin, Amount: 19, EntryLink: EntryLink{RoomID: "room_a"}},
			{ID: "t2", Kind: EntryBet, Amount: 10, EntryLink: EntryLink{RoomID: "room_a"}},
		},
	}

	if !w.HasEntry(EntryWin, EntryLink{RoomID: "room_a"}) {
		t.Fatal("existing win entry not found")
	}
	if w.HasEntry(EntryWin, EntryLink{RoomID: "room_b"}) {
		t.Fatal("matched entry from another room")
	}
	if w.HasEntry(EntryRefund, EntryLink{RoomID: "room_a"}) {
		t.Fatal("matched entry of different kind")
	}
}

func TestHasEntryMatchesByOrder(t *testing.T) {
	w := &WalletAccount{
		UID: "u1",
		Transactions: []LedgerEntry{
			{ID: "t1", Kind: EntryDeposit, Amount: 100, EntryLink: EntryLink{OrderID: "order_x", PaymentID: "pay_1"}},
		},
	}

	if !w.HasEntry(EntryDeposit, EntryLink{OrderID: "order_x"}) {
		t.Fatal("existing deposit entry not found")
	}
	if w.HasEntry(EntryDeposit, EntryLink{OrderID: "order_y"}) {
		t.Fatal("matched entry for another order")
	}
	// An empty link never matches anything.
	if w.HasEntry(EntryDeposit, EntryLink{}) {
		t.Fatal("empty link matched")
	}
}
