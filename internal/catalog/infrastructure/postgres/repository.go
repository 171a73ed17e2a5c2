package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/storefront/internal/catalog/application"
	"github.com/example/storefront/internal/catalog/domain"
	"github.com/example/storefront/pkg/apperror"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Create(ctx context.Context, p domain.Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return apperror.Internal(err)
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO products
		(id, name, description, price_cents, stock, category, seller_id, images, rating, num_reviews, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		p.ID, p.Name, p.Description, p.PriceCents, p.Stock, p.Category, p.SellerID, images, p.Rating, p.NumReviews, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	var images []byte
	err := r.pool.QueryRow(ctx, `SELECT id, name, description, price_cents, stock, category, seller_id, images, rating, num_reviews, created_at, updated_at
		FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.Category, &p.SellerID, &images, &p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, apperror.NotFound("product")
	}
	if err != nil {
		return domain.Product{}, apperror.Internal(err)
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return domain.Product{}, apperror.Internal(err)
	}

	rows, err := r.pool.Query(ctx, `SELECT id, user_id, user_name, rating, comment, created_at, updated_at
		FROM reviews WHERE product_id=$1 ORDER BY created_at`, id)
	if err != nil {
		return domain.Product{}, apperror.Internal(err)
	}
	defer rows.Close()
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return domain.Product{}, apperror.Internal(err)
		}
		p.Reviews = append(p.Reviews, rv)
	}
	return p, rows.Err()
}

func (r *Repository) List(ctx context.Context, f application.ListFilter) ([]domain.Product, int, error) {
	where := []string{"1=1"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Category != "" {
		where = append(where, "category = "+arg(f.Category))
	}
	if f.Keyword != "" {
		where = append(where, "name ILIKE "+arg("%"+f.Keyword+"%"))
	}
	if f.MinPriceCents > 0 {
		where = append(where, "price_cents >= "+arg(f.MinPriceCents))
	}
	if f.MaxPriceCents > 0 {
		where = append(where, "price_cents <= "+arg(f.MaxPriceCents))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, apperror.Internal(err)
	}

	query := `SELECT id, name, description, price_cents, stock, category, seller_id, images, rating, num_reviews, created_at, updated_at
		FROM products WHERE ` + cond + ` ORDER BY created_at DESC LIMIT ` + arg(f.PerPage) + ` OFFSET ` + arg((f.Page-1)*f.PerPage)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		var images []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.Category, &p.SellerID, &images, &p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, apperror.Internal(err)
		}
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, 0, apperror.Internal(err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *Repository) Update(ctx context.Context, p domain.Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return apperror.Internal(err)
	}
	ct, err := r.pool.Exec(ctx, `UPDATE products
		SET name=$2, description=$3, price_cents=$4, stock=$5, category=$6, images=$7, updated_at=now()
		WHERE id=$1`,
		p.ID, p.Name, p.Description, p.PriceCents, p.Stock, p.Category, images)
	if err != nil {
		return apperror.Internal(err)
	}
	if ct.RowsAffected() == 0 {
		return apperror.NotFound("product")
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if ct.RowsAffected() == 0 {
		return apperror.NotFound("product")
	}
	return nil
}

// UpsertReview writes the review row and the product's aggregate columns in
// one transaction so readers never observe them out of step.
func (r *Repository) UpsertReview(ctx context.Context, productID string, rv domain.Review, isNew bool, rating float64, numReviews int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperror.Internal(err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if isNew {
		_, err = tx.Exec(ctx, `INSERT INTO reviews (id, product_id, user_id, user_name, rating, comment, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			rv.ID, productID, rv.UserID, rv.UserName, rv.Rating, rv.Comment, rv.CreatedAt, rv.UpdatedAt)
	} else {
		_, err = tx.Exec(ctx, `UPDATE reviews SET rating=$3, comment=$4, updated_at=$5
			WHERE product_id=$1 AND user_id=$2`,
			productID, rv.UserID, rv.Rating, rv.Comment, rv.UpdatedAt)
	}
	if err != nil {
		return apperror.Internal(err)
	}

	if _, err = tx.Exec(ctx, `UPDATE products SET rating=$2, num_reviews=$3, updated_at=now() WHERE id=$1`,
		productID, rating, numReviews); err != nil {
		return apperror.Internal(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (r *Repository) DeleteReview(ctx context.Context, productID, reviewID string, rating float64, numReviews int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperror.Internal(err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id=$1 AND product_id=$2`, reviewID, productID)
	if err != nil {
		return apperror.Internal(err)
	}
	if ct.RowsAffected() == 0 {
		return apperror.NotFound("review")
	}

	if _, err = tx.Exec(ctx, `UPDATE products SET rating=$2, num_reviews=$3, updated_at=now() WHERE id=$1`,
		productID, rating, numReviews); err != nil {
		return apperror.Internal(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
