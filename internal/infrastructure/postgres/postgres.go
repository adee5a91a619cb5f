package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"habit-tracker/internal/domain/entity"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func toPgTime(t entity.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t) * 60 * 1_000_000, Valid: true}
}

func fromPgTime(t pgtype.Time) entity.TimeOfDay {
	return entity.TimeOfDay(t.Microseconds / (60 * 1_000_000))
}
