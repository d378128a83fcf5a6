package valueobject

import (
	"fmt"
	"math"

	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
)

// MaxAmount ограничивает бюджет и стоимость сверху.
const MaxAmount = 100000000.0

// Money - положительная сумма в условных единицах.
type Money float64

func NewMoney(field string, amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("%s: некорректное число", field))
	}
	if amount <= 0 {
		return 0, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("%s должен быть положительным", field))
	}
	if amount > MaxAmount {
		return 0, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("%s не может превышать %.0f", field, MaxAmount))
	}
	return Money(amount), nil
}

func (m Money) Float64() float64 {
	return float64(m)
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f", float64(m))
}
