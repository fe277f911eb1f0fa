package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"campushub/internal/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrSlotTaken is returned when the bookings unique index rejects an
	// insert. It is the atomic backstop behind the in-memory conflict
	// check: a writer that loses the race gets this instead of silently
	// double-booking.
	ErrSlotTaken = errors.New("slot already taken")
)

// DB wraps a sql.DB connection.
type DB struct {
	conn  *sql.DB
	stats *statsCache
}

// NewDB opens a database connection and runs migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	stats, err := newStatsCache()
	if err != nil {
		return nil, err
	}

	db := &DB{conn: conn, stats: stats}
	if err := db.migrate(); err != nil {
		return nil, err
	}

	return db, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS expenses (
			id TEXT PRIMARY KEY,
			merchant TEXT NOT NULL,
			date TEXT NOT NULL,
			total REAL NOT NULL,
			category TEXT NOT NULL,
			currency TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			raw_text TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			is_read INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS resources (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			resource_id INTEGER NOT NULL REFERENCES resources(id),
			date TEXT NOT NULL,
			time_slot TEXT NOT NULL,
			requester TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'Pending',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// Declined bookings free the slot, so the uniqueness guard only
		// covers rows still holding it.
		`CREATE UNIQUE INDEX IF NOT EXISTS bookings_slot_holder
			ON bookings(resource_id, date, time_slot)
			WHERE status != 'Declined'`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}

	return db.seedResources()
}

func (db *DB) seedResources() error {
	seed := []models.Resource{
		{ID: 1, Name: "Physics Lab A", Type: "Lab"},
		{ID: 2, Name: "Main Auditorium", Type: "Hall"},
		{ID: 3, Name: "4K Projector X1", Type: "Equipment"},
		{ID: 4, Name: "Computer Lab 4", Type: "Lab"},
		{ID: 5, Name: "Chemistry Lab", Type: "Lab"},
		{ID: 6, Name: "Seminar Room 102", Type: "Hall"},
	}
	for _, r := range seed {
		if _, err := db.conn.Exec(
			"INSERT OR IGNORE INTO resources (id, name, type) VALUES (?, ?, ?)",
			r.ID, r.Name, r.Type,
		); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.stats.close()
	return db.conn.Close()
}

// CreateExpense inserts a new expense.
func (db *DB) CreateExpense(e *models.Expense) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := db.conn.Exec(
		`INSERT INTO expenses (id, merchant, date, total, category, currency, image_url, raw_text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Merchant, e.Date, e.Total, e.Category, e.Currency, e.ImageURL, e.RawText, e.CreatedAt,
	)
	if err != nil {
		return err
	}
	db.stats.clear()
	return nil
}

// ListExpenses retrieves all expenses, newest first.
func (db *DB) ListExpenses() ([]models.Expense, error) {
	rows, err := db.conn.Query(
		`SELECT id, merchant, date, total, category, currency, image_url, raw_text, created_at
		 FROM expenses ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Merchant, &e.Date, &e.Total, &e.Category, &e.Currency, &e.ImageURL, &e.RawText, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// DeleteExpense removes an expense by ID.
func (db *DB) DeleteExpense(id string) error {
	result, err := db.conn.Exec("DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	db.stats.clear()
	return nil
}

// CategoryTotal holds aggregated spending for one category in one month.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// GetCategoryTotalsByMonth aggregates expenses by category for a month.
// Results are cached until the next expense write.
func (db *DB) GetCategoryTotalsByMonth(year, month int) ([]CategoryTotal, error) {
	key := fmt.Sprintf("summary:%04d-%02d", year, month)
	if totals, ok := db.stats.get(key); ok {
		return totals, nil
	}

	rows, err := db.conn.Query(
		`SELECT category, SUM(total), COUNT(*)
		 FROM expenses WHERE substr(date, 1, 7) = ?
		 GROUP BY category ORDER BY SUM(total) DESC`,
		fmt.Sprintf("%04d-%02d", year, month),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total, &ct.Count); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	db.stats.set(key, totals)
	return totals, nil
}

// SaveAlerts appends alerts to the log.
func (db *DB) SaveAlerts(alerts []models.Alert) error {
	for _, a := range alerts {
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now()
		}
		if _, err := db.conn.Exec(
			"INSERT INTO alerts (id, type, message, created_at, is_read) VALUES (?, ?, ?, ?, ?)",
			a.ID, string(a.Type), a.Message, a.CreatedAt, a.IsRead,
		); err != nil {
			return err
		}
	}
	return nil
}

// ListAlerts retrieves all alerts, newest first.
func (db *DB) ListAlerts() ([]models.Alert, error) {
	rows, err := db.conn.Query(
		"SELECT id, type, message, created_at, is_read FROM alerts ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.Type, &a.Message, &a.CreatedAt, &a.IsRead); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}

// MarkAlertRead sets the read flag on an alert.
func (db *DB) MarkAlertRead(id string) error {
	result, err := db.conn.Exec("UPDATE alerts SET is_read = 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearAlerts removes all alerts.
func (db *DB) ClearAlerts() error {
	_, err := db.conn.Exec("DELETE FROM alerts")
	return err
}

// CreateBooking inserts a new booking. A unique-index violation on the slot
// is reported as ErrSlotTaken.
func (db *DB) CreateBooking(b *models.Booking) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	_, err := db.conn.Exec(
		`INSERT INTO bookings (id, resource_id, date, time_slot, requester, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.ResourceID, b.Date, b.TimeSlot, b.Requester, string(b.Status), b.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrSlotTaken
		}
		return err
	}
	return nil
}

// GetBooking retrieves a single booking by ID.
func (db *DB) GetBooking(id string) (*models.Booking, error) {
	row := db.conn.QueryRow(
		`SELECT id, resource_id, date, time_slot, requester, status, created_at
		 FROM bookings WHERE id = ?`,
		id,
	)

	var b models.Booking
	if err := row.Scan(&b.ID, &b.ResourceID, &b.Date, &b.TimeSlot, &b.Requester, &b.Status, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListBookings retrieves all bookings, newest first.
func (db *DB) ListBookings() ([]models.Booking, error) {
	rows, err := db.conn.Query(
		`SELECT id, resource_id, date, time_slot, requester, status, created_at
		 FROM bookings ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.ResourceID, &b.Date, &b.TimeSlot, &b.Requester, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// UpdateBookingStatus sets a booking's status. Moving a Declined booking
// back into a slot that was rebooked in the meantime trips the unique index
// and is reported as ErrSlotTaken.
func (db *DB) UpdateBookingStatus(id string, status models.BookingStatus) error {
	result, err := db.conn.Exec("UPDATE bookings SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrSlotTaken
		}
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBooking removes a booking by ID, regardless of status.
func (db *DB) DeleteBooking(id string) error {
	result, err := db.conn.Exec("DELETE FROM bookings WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListResources retrieves the resource catalog, optionally filtered by a
// case-insensitive match on name or type.
func (db *DB) ListResources(query string) ([]models.Resource, error) {
	rows, err := db.conn.Query(
		`SELECT id, name, type FROM resources
		 WHERE ? = '' OR lower(name) LIKE ? OR lower(type) LIKE ?
		 ORDER BY id`,
		query, "%"+strings.ToLower(query)+"%", "%"+strings.ToLower(query)+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []models.Resource
	for rows.Next() {
		var r models.Resource
		if err := rows.Scan(&r.ID, &r.Name, &r.Type); err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}

	return resources, rows.Err()
}
