package database

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestRetryOnDuplicate(t *testing.T) {
	t.Run("sucesso na primeira tentativa", func(t *testing.T) {
		calls := 0
		err := RetryOnDuplicate(3, func() error {
			calls++
			return nil
		})
		if err != nil || calls != 1 {
			t.Errorf("err = %v, calls = %d, want nil e 1", err, calls)
		}
	})

	t.Run("duplicata é tentada de novo", func(t *testing.T) {
		calls := 0
		err := RetryOnDuplicate(3, func() error {
			calls++
			if calls < 3 {
				return fmt.Errorf("create: %w", gorm.ErrDuplicatedKey)
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("err = %v, calls = %d, want nil e 3", err, calls)
		}
	})

	t.Run("outro erro interrompe na hora", func(t *testing.T) {
		boom := errors.New("connection reset")
		calls := 0
		err := RetryOnDuplicate(3, func() error {
			calls++
			return boom
		})
		if !errors.Is(err, boom) || calls != 1 {
			t.Errorf("err = %v, calls = %d, want connection reset e 1", err, calls)
		}
	})

	t.Run("tentativas esgotadas devolvem o último erro", func(t *testing.T) {
		calls := 0
		err := RetryOnDuplicate(3, func() error {
			calls++
			return gorm.ErrDuplicatedKey
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) || calls != 3 {
			t.Errorf("err = %v, calls = %d, want ErrDuplicatedKey e 3", err, calls)
		}
	})
}
