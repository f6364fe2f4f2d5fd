package app

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/draft-board/internal/config"
)

const maxTracedQueryLength = 512

var queryWhitespace = regexp.MustCompile(`\s+`)

// openDB opens an instrumented postgres handle and pings it once.
func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", WithApplicationName(cfg.DBURL, cfg.ServiceName),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// WithApplicationName tags connections so they can be told apart in
// pg_stat_activity. An explicit application_name is kept.
func WithApplicationName(raw, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return raw
	}

	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed == nil || parsed.Scheme == "" {
		if strings.Contains(raw, "application_name=") {
			return raw
		}
		return strings.TrimSpace(raw) + " application_name=" + name
	}

	query := parsed.Query()
	if query.Get("application_name") == "" {
		query.Set("application_name", name)
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		if name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")); name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		name, ok := strings.CutPrefix(token, "dbname=")
		if !ok {
			continue
		}
		if name = strings.Trim(strings.TrimSpace(name), `"'`); name != "" {
			return name
		}
	}

	return ""
}

// formatQueryForTrace collapses whitespace and truncates long bulk upserts.
func formatQueryForTrace(query string) string {
	normalized := queryWhitespace.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}
