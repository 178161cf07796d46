// Package devserver serves an in-memory copy of the admin API for local runs
// and integration tests.
//
// It speaks the same query convention as the console: page, limit and sort
// ("-createdAt,title"), any other parameter filters by case-insensitive
// substring, and populate=teacher embeds the case teacher. List responses
// carry both the {"items","total"} envelope and an X-Total-Count header.
// Cases and activities can be deleted; users are read-only.
package devserver
