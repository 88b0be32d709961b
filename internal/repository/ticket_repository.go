package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/booksphere/internal/model"
	"github.com/iliyamo/booksphere/internal/ticket"
)

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// TicketRepo persists issued tickets in the `tickets` table so they survive
// restarts.  It satisfies ticket.Store.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the provided database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// EnsureSchema creates the tickets table when it does not exist yet.
func (r *TicketRepo) EnsureSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS tickets (
		booking_id CHAR(36)     NOT NULL PRIMARY KEY,
		file_name  VARCHAR(255) NOT NULL,
		payload    MEDIUMBLOB   NOT NULL,
		created_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Insert adds a ticket row.  The primary key on booking_id makes the
// check-and-set atomic; a clash is reported as ticket.ErrDuplicate.
func (r *TicketRepo) Insert(ctx context.Context, t model.Ticket) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tickets (booking_id, file_name, payload) VALUES (?, ?, ?)`,
		t.BookingID, t.FileName, t.Payload)
	if isDuplicate(err) {
		return ticket.ErrDuplicate
	}
	return err
}

// Put upserts a ticket row.
func (r *TicketRepo) Put(ctx context.Context, t model.Ticket) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tickets (booking_id, file_name, payload) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE file_name = VALUES(file_name), payload = VALUES(payload)`,
		t.BookingID, t.FileName, t.Payload)
	return err
}

// Get loads a ticket by booking id.  Missing rows map to ticket.ErrNotFound.
func (r *TicketRepo) Get(ctx context.Context, bookingID string) (model.Ticket, error) {
	t := model.Ticket{BookingID: bookingID}
	err := r.db.QueryRowContext(ctx,
		`SELECT file_name, payload FROM tickets WHERE booking_id = ? LIMIT 1`,
		bookingID).Scan(&t.FileName, &t.Payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Ticket{}, ticket.ErrNotFound
	}
	if err != nil {
		return model.Ticket{}, err
	}
	return t, nil
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
