package dbpool

import (
	"errors"
	"strings"

	"github.com/jackc/pgconn"
)

// transientSQLStates are the Postgres SQLSTATE classes/codes worth retrying
// the single process-startup connect attempt for: the whole 08xxx
// "Connection Exception" class, plus the three pg_terminate/shutdown codes
// that mean the backend itself went away rather than rejected the query.
var transientSQLStates = map[string]bool{
	"57P01": true, // admin shutdown
	"57P02": true, // crash shutdown
	"57P03": true, // cannot connect now
}

// transientDialKeywords are substrings of net/pgconn dial errors that never
// carry a SQLSTATE (the TCP handshake itself failed) but still indicate a
// retry is worth attempting.
var transientDialKeywords = []string{
	"connection refused",
	"connection reset",
	"connection closed",
	"unexpected eof",
	"broken pipe",
	"no such host",
	"network is unreachable",
	"timeout",
}

// isConnectionError reports whether err looks like a transient
// connectivity failure — worth one delayed retry of the process-startup
// connect attempt — rather than a structural failure (bad query, bad
// credentials, missing table) that retrying would never fix. Grounded on
// the teacher's internal/data/retry.go SQLSTATE/keyword classification,
// reshaped here to serve only the single pool-open retry in OpenWithRetry.
//
// Per spec.md §4.1, the Cursor Reader itself never retries once an export
// is under way; a mid-export connection loss surfaces directly as
// CursorFailed. This classifier only gates the one connection attempt made
// before any export has begun.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08") || transientSQLStates[pgErr.Code]
	}

	lower := strings.ToLower(err.Error())
	for _, keyword := range transientDialKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
