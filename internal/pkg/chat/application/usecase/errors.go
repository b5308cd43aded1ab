package usecase

import (
	"fmt"

	chat "go-parley/internal/pkg/chat/application/domain"
)

// ErrPersistence indicates an infrastructure/repository failure inside a use case
var ErrPersistence = fmt.Errorf("chat use case persistence error")

// wrapRepoErr lets expected business outcomes pass through untouched and wraps
// everything else as a persistence failure.
func wrapRepoErr(err error) error {
	if err == nil {
		return nil
	}
	if chat.IsBusinessError(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
