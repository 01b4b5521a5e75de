// Package repository implements data access over database/sql. Sentinel
// errors defined here let handlers translate storage failures into the
// right HTTP shape without string matching: not-found becomes 404 and the
// uniqueness sentinels become field validation errors, never a raw
// database error.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when an insert collides with the unique
// username key.
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned when an insert collides with the unique
// email key.
var ErrEmailExists = errors.New("email already exists")

// isDuplicate reports whether err is a MySQL duplicate-entry error (1062),
// optionally scoped to a specific key name.
func isDuplicate(err error, key string) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != 1062 {
		return false
	}
	return key == "" || strings.Contains(me.Message, key)
}

// isFKViolation reports whether err is a MySQL foreign-key error (1452),
// raised when inserting a row that references a missing parent.
func isFKViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1452
}
