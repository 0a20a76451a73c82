package lnb

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no node has the id in the given scope
	ErrNotFound = errors.New("찾을 수 없습니다")
	// ErrInvalid marks input that can never be stored
	ErrInvalid = errors.New("잘못된 메뉴")
)

func notFound(id string) error {
	return fmt.Errorf("메뉴 '%s'을(를) %w", id, ErrNotFound)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
