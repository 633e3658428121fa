package utils

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// mongoDuplicateKeyCode is the server error code for a unique index violation.
const mongoDuplicateKeyCode = 11000

// IsMongoDuplicateKey reports whether error is a MongoDB unique index violation (code 11000).
func IsMongoDuplicateKey(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == mongoDuplicateKeyCode {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return ce.Code == mongoDuplicateKeyCode
	}
	return false
}
