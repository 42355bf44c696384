package feedback

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const feedbackColumns = `id, COALESCE(name, ''), COALESCE(email, ''), COALESCE(phone, ''),
	message, COALESCE(rating, 0), status, created_at, updated_at`

const (
	insertFeedbackQuery = `
		INSERT INTO customer_feedback (name, email, phone, message, rating, status)
		VALUES (NULLIF($1,''), NULLIF($2,''), NULLIF($3,''), $4, NULLIF($5, 0), $6)
		RETURNING id, created_at, updated_at`

	listResolvedQuery = `
		SELECT ` + feedbackColumns + `
		FROM customer_feedback
		WHERE status = 'resolved' AND ($2 = 0 OR rating >= $2)
		ORDER BY updated_at DESC
		LIMIT $1`

	listAllFeedbackQuery = `
		SELECT ` + feedbackColumns + `
		FROM customer_feedback
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC`

	updateFeedbackStatusQuery = `
		UPDATE customer_feedback
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + feedbackColumns
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(f Feedback) (Feedback, error) {
	f.Status = StatusNew
	err := r.db.QueryRow(insertFeedbackQuery,
		f.Name, f.Email, f.Phone, f.Message, f.Rating, f.Status,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return Feedback{}, err
	}
	return f, nil
}

func (r *PostgresRepository) ListResolved(limit, minRating int) ([]Feedback, error) {
	rows, err := r.db.Query(listResolvedQuery, limit, minRating)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *PostgresRepository) ListAll(status Status) ([]Feedback, error) {
	rows, err := r.db.Query(listAllFeedbackQuery, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *PostgresRepository) UpdateStatus(id int, status Status) (Feedback, error) {
	var f Feedback
	err := scanFeedback(r.db.QueryRow(updateFeedbackStatusQuery, status, id), &f)
	if err == sql.ErrNoRows {
		return Feedback{}, ErrNotFound
	}
	if err != nil {
		return Feedback{}, err
	}
	return f, nil
}

func collect(rows *sql.Rows) ([]Feedback, error) {
	out := make([]Feedback, 0)
	for rows.Next() {
		var f Feedback
		if err := scanFeedback(rows, &f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeedback(row rowScanner, f *Feedback) error {
	return row.Scan(&f.ID, &f.Name, &f.Email, &f.Phone, &f.Message, &f.Rating,
		&f.Status, &f.CreatedAt, &f.UpdatedAt)
}
