package database

import (
	"net/url"
	"strings"
)

// ConstructDatabaseURL joins a server URL and a database name.
// The database name replaces any path on the base URL, existing query
// parameters are preserved and sslmode=disable is added when absent.
// An empty name returns the base URL untouched.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		// Keyword/value DSNs are not URLs; append the dbname keyword instead
		return baseURL + " dbname=" + databaseName
	}

	parsed.Path = "/" + databaseName

	query := parsed.Query()
	if query.Get("sslmode") == "" {
		query.Set("sslmode", "disable")
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}
