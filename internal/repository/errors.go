package repository

import (
	"errors"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// translate maps driver errors onto repository errors
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}
