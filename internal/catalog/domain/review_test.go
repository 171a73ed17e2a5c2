package domain

import "testing"

func testProduct() Product {
	return NewProduct("p1", "Headphones", "over-ear", 4999, 10, CategoryHeadphones, "s1", nil)
}

func TestUpsertReview_AppendsAndAggregates(t *testing.T) {
	p := testProduct()

	if p.Rating != 0 {
		t.Errorf("Rating = %v, want 0 with no reviews", p.Rating)
	}

	if added := p.UpsertReview("r1", "u1", "alice", 4, "good"); !added {
		t.Error("UpsertReview() = false, want true for a new review")
	}
	if added := p.UpsertReview("r2", "u2", "bob", 2, "meh"); !added {
		t.Error("UpsertReview() = false, want true for a new review")
	}

	if p.NumReviews != 2 {
		t.Errorf("NumReviews = %d, want 2", p.NumReviews)
	}
	if len(p.Reviews) != p.NumReviews {
		t.Errorf("len(Reviews) = %d, NumReviews = %d, want equal", len(p.Reviews), p.NumReviews)
	}
	if p.Rating != 3 {
		t.Errorf("Rating = %v, want 3", p.Rating)
	}
}

func TestUpsertReview_SameUserOverwritesInPlace(t *testing.T) {
	p := testProduct()

	p.UpsertReview("r1", "u1", "alice", 2, "first impression")
	if added := p.UpsertReview("r2", "u1", "alice", 5, "changed my mind"); added {
		t.Error("UpsertReview() = true, want false when overwriting")
	}

	if p.NumReviews != 1 {
		t.Fatalf("NumReviews = %d, want exactly 1 after resubmission", p.NumReviews)
	}
	got := p.Reviews[0]
	if got.Rating != 5 || got.Comment != "changed my mind" {
		t.Errorf("stored review = (%d, %q), want latest values (5, %q)", got.Rating, got.Comment, "changed my mind")
	}
	if got.ID != "r1" {
		t.Errorf("review ID = %q, want original %q kept on overwrite", got.ID, "r1")
	}
	if p.Rating != 5 {
		t.Errorf("Rating = %v, want 5", p.Rating)
	}
}

func TestRemoveReview_RecomputesAggregate(t *testing.T) {
	p := testProduct()
	p.UpsertReview("r1", "u1", "alice", 4, "")
	p.UpsertReview("r2", "u2", "bob", 1, "")

	if removed := p.RemoveReview("r2"); !removed {
		t.Fatal("RemoveReview() = false, want true")
	}
	if p.NumReviews != 1 || p.Rating != 4 {
		t.Errorf("after removal NumReviews = %d, Rating = %v, want 1 and 4", p.NumReviews, p.Rating)
	}

	if removed := p.RemoveReview("r1"); !removed {
		t.Fatal("RemoveReview() = false, want true")
	}
	if p.NumReviews != 0 {
		t.Errorf("NumReviews = %d, want 0", p.NumReviews)
	}
	if p.Rating != 0 {
		t.Errorf("Rating = %v, want 0 for an empty review list", p.Rating)
	}

	if removed := p.RemoveReview("r1"); removed {
		t.Error("RemoveReview() = true for an absent review, want false")
	}
}
