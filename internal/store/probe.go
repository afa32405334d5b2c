package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
)

// CountFile opens the database at path read-only, counts its events and
// closes it again. It shares nothing with an open Store, so it keeps
// answering (or failing on its own) when the main handle is unusable.
//
// A missing file is an error; it is never created.
func CountFile(ctx context.Context, path string) (int64, error) {
	dsn := readOnlyDSN(path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	return New(db).Count(ctx)
}

// readOnlyDSN builds a SQLite URI for path with mode=ro. The path is
// percent-escaped so '#', '?' and '%' in file names stay part of the name.
func readOnlyDSN(path string) string {
	u := url.URL{Scheme: "file", Path: path, OmitHost: true, RawQuery: "mode=ro"}
	return u.String()
}
