package domain

import (
	"reflect"
	"testing"
)

func line(id string, priceCents int64, stock, qty int) Line {
	return Line{ProductID: id, Name: "product " + id, PriceCents: priceCents, StockSnapshot: stock, Quantity: qty}
}

func TestAdd_NewAndExistingLines(t *testing.T) {
	var c Cart

	if !c.Add(line("a", 1000, 5, 2)) {
		t.Fatal("Add() = false for a new line, want true")
	}
	if !c.Add(line("a", 1000, 5, 1)) {
		t.Fatal("Add() = false for an in-bounds increase, want true")
	}
	if got := c.Lines[0].Quantity; got != 3 {
		t.Errorf("Quantity = %d, want 3", got)
	}
	if got := c.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}
}

func TestAdd_BeyondSnapshotLeavesCartUnchanged(t *testing.T) {
	var c Cart
	c.Add(line("a", 1000, 3, 2))
	before := append([]Line(nil), c.Lines...)

	if c.Add(line("a", 1000, 3, 2)) {
		t.Error("Add() = true when increase exceeds stock snapshot, want false")
	}
	if !reflect.DeepEqual(c.Lines, before) {
		t.Errorf("Lines = %+v, want unchanged %+v", c.Lines, before)
	}
}

func TestAdd_NonPositiveQuantityDoesNotIncreaseCount(t *testing.T) {
	var c Cart
	c.Add(line("a", 1000, 5, 2))
	before := c.Count()

	c.Add(line("b", 500, 5, 0))
	c.Add(line("b", 500, 5, -1))
	c.Add(line("a", 1000, 5, 0))

	if got := c.Count(); got != before {
		t.Errorf("Count() = %d after zero/negative adds, want %d", got, before)
	}
	if len(c.Lines) != 1 {
		t.Errorf("len(Lines) = %d, want 1", len(c.Lines))
	}
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	var c Cart
	c.Add(line("a", 1000, 5, 2))
	c.Add(line("b", 500, 5, 1))

	if !c.UpdateQuantity("a", 0) {
		t.Fatal("UpdateQuantity(a, 0) = false, want true")
	}
	if len(c.Lines) != 1 || c.Lines[0].ProductID != "b" {
		t.Errorf("Lines = %+v, want only product b", c.Lines)
	}
}

func TestUpdateQuantity_AboveSnapshotIsNoOp(t *testing.T) {
	var c Cart
	c.Add(line("a", 1000, 3, 2))
	before := append([]Line(nil), c.Lines...)

	if c.UpdateQuantity("a", 4) {
		t.Error("UpdateQuantity() = true above the snapshot, want false")
	}
	if !reflect.DeepEqual(c.Lines, before) {
		t.Errorf("Lines = %+v, want byte-for-byte unchanged %+v", c.Lines, before)
	}
}

func TestUpdateQuantity_SetsWithinBounds(t *testing.T) {
	var c Cart
	c.Add(line("a", 1000, 5, 2))

	if !c.UpdateQuantity("a", 5) {
		t.Fatal("UpdateQuantity(a, 5) = false, want true")
	}
	if got := c.Lines[0].Quantity; got != 5 {
		t.Errorf("Quantity = %d, want 5", got)
	}
	if c.UpdateQuantity("missing", 1) {
		t.Error("UpdateQuantity() = true for an absent line, want false")
	}
}

func TestTotal_TwoLineScenario(t *testing.T) {
	var c Cart
	c.Add(line("A", 1000, 10, 2))
	c.Add(line("B", 500, 10, 1))

	if got := c.TotalCents(); got != 2500 {
		t.Errorf("TotalCents() = %d, want 2500", got)
	}

	c.Remove("A")
	if got := c.TotalCents(); got != 500 {
		t.Errorf("TotalCents() after removing A = %d, want 500", got)
	}
}

func TestRemoveAndClear(t *testing.T) {
	var c Cart
	c.Add(line("a", 1000, 5, 1))

	if !c.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if c.Remove("a") {
		t.Error("Remove(a) twice = true, want false (idempotent)")
	}

	c.Add(line("a", 1000, 5, 1))
	c.Add(line("b", 500, 5, 2))
	c.Clear()
	if len(c.Lines) != 0 || c.TotalCents() != 0 || c.Count() != 0 {
		t.Errorf("after Clear(): Lines=%v Total=%d Count=%d, want all empty", c.Lines, c.TotalCents(), c.Count())
	}
}
