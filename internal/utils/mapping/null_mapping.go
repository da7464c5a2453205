package mapping

import (
	"database/sql"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// Empty strings and NoAccount are stored as NULL.

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func fromNullString(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

func toNullAccount(a int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(a), Valid: a != domain.NoAccount}
}

func fromNullAccount(a sql.NullInt64) int {
	if !a.Valid {
		return domain.NoAccount
	}
	return int(a.Int64)
}
