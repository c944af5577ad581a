package database

import (
	"errors"

	"gorm.io/gorm"
)

// RetryOnDuplicate reexecuta fn quando a transação perdeu a corrida por um
// número sequencial e caiu no índice único. Qualquer outro erro interrompe
// na hora; esgotadas as tentativas, devolve o último erro.
func RetryOnDuplicate(attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}
