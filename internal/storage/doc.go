// Package storage owns all persisted bot state: match records, guild
// settings, and moderation warnings.
//
// Two drivers are available behind the Store interface: a file driver
// (JSON collections, atomic full-file rewrite per mutation) and a SQLite
// driver. Both serialize mutations and hand out copies on reads.
package storage
