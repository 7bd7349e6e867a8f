// Package userstore is a gorm-backed implementation of authcore.UserProvider
// for hosts that keep accounts in a relational users table. It supports
// Postgres in production and SQLite for local development and tests.
package userstore
