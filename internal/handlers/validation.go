package handlers

import (
	"errors"

	playground "github.com/go-playground/validator/v10"

	"github.com/bdeshop/khelaghor-sub001/internal/money"
)

var validate = playground.New()

var errInvalidAmount = errors.New("invalid amount")

func parseAmountMinor(raw string) (int64, error) {
	amount, err := money.ParseMinor(raw)
	if err != nil || amount <= 0 {
		return 0, errInvalidAmount
	}
	return amount, nil
}

// parseBoundMinor accepts zero, used for optional method limits.
func parseBoundMinor(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	amount, err := money.ParseMinor(raw)
	if err != nil || amount < 0 {
		return 0, errInvalidAmount
	}
	return amount, nil
}
