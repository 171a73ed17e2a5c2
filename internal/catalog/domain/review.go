package domain

import "time"

// Review is one user's rating of a product. A user holds at most one review
// per product; resubmitting overwrites the existing entry in place.
type Review struct {
	ID        string
	UserID    string
	UserName  string
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpsertReview applies a review and recomputes the aggregate. It reports
// whether a new entry was appended (false when an existing one was
// overwritten).
func (p *Product) UpsertReview(reviewID, userID, userName string, rating int, comment string) bool {
	now := time.Now().UTC()
	for i := range p.Reviews {
		if p.Reviews[i].UserID == userID {
			p.Reviews[i].Rating = rating
			p.Reviews[i].Comment = comment
			p.Reviews[i].UpdatedAt = now
			p.recomputeRating()
			return false
		}
	}
	p.Reviews = append(p.Reviews, Review{
		ID:        reviewID,
		UserID:    userID,
		UserName:  userName,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	})
	p.recomputeRating()
	return true
}

// RemoveReview deletes a review by ID and recomputes the aggregate. It
// reports whether an entry was removed.
func (p *Product) RemoveReview(reviewID string) bool {
	for i := range p.Reviews {
		if p.Reviews[i].ID == reviewID {
			p.Reviews = append(p.Reviews[:i], p.Reviews[i+1:]...)
			p.recomputeRating()
			return true
		}
	}
	return false
}

// recomputeRating keeps the invariants: NumReviews == len(Reviews) and
// Rating is the mean of all review ratings, 0 for an empty list.
func (p *Product) recomputeRating() {
	p.NumReviews = len(p.Reviews)
	if p.NumReviews == 0 {
		p.Rating = 0
		return
	}
	var sum int
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = float64(sum) / float64(p.NumReviews)
}
