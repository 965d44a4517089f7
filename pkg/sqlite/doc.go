// Package sqlite opens SQLite databases with the pure-Go modernc driver and
// applies embedded goose migrations.
//
// Databases are opened in WAL mode with a busy timeout and a single
// connection, which serializes writers inside the process.
package sqlite
