package services

import (
	"context"
	"fmt"
	"math/rand"
)

// Публичные идентификаторы - случайные числа в диапазоне [1, 1000000),
// как их видят клиенты. Случайная генерация допускает коллизии, поэтому
// кандидат проверяется по хранилищу и при совпадении берется новый.
const (
	publicIDMax   = 1_000_000
	maxIDAttempts = 10
)

// NewPublicID генерирует свободный публичный идентификатор. taken
// сообщает, занят ли кандидат в хранилище.
func NewPublicID(ctx context.Context, taken func(ctx context.Context, id int64) (bool, error)) (int64, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := int64(rand.Intn(publicIDMax-1) + 1)

		exists, err := taken(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("failed to check id collision: %w", err)
		}
		if !exists {
			return id, nil
		}
	}

	return 0, fmt.Errorf("failed to allocate public id after %d attempts", maxIDAttempts)
}
