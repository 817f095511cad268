// Package chain provides the on-chain client for the token and staking
// contracts, plus common amount utilities.
package chain

import (
	"math/big"
	"strings"

	stakeerr "github.com/turkyfun/stakectl/pkg/errors"
)

// TokenDecimals is the fixed decimal precision of both the staked token and
// the reward token. All contract amounts are base-unit integers at this
// precision.
const TokenDecimals = 18

// ParseTokenAmount parses a decimal amount string to base units.
// For example, "1.5" returns 1500000000000000000.
//
//nolint:gocognit,gocyclo // Decimal parsing requires sequential validation steps
func ParseTokenAmount(amount string) (*big.Int, error) {
	if amount == "" {
		return nil, stakeerr.ErrInvalidAmount
	}

	// Reject negative amounts up front
	if strings.HasPrefix(amount, "-") {
		return nil, stakeerr.ErrInvalidAmount
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return nil, stakeerr.ErrInvalidAmount
	}

	intPart := parts[0]
	decPart := ""
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if intPart == "" {
		intPart = "0"
	}
	intVal, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, stakeerr.ErrInvalidAmount
	}

	multiplier := new(big.Int).Exp(big.NewInt(10), big.NewInt(TokenDecimals), nil)
	result := new(big.Int).Mul(intVal, multiplier)

	if decPart != "" {
		for _, c := range decPart {
			if c < '0' || c > '9' {
				return nil, stakeerr.ErrInvalidAmount
			}
		}

		// Pad or truncate the fractional part to the token precision
		for len(decPart) < TokenDecimals {
			decPart += "0"
		}
		decPart = decPart[:TokenDecimals]

		decVal, ok := new(big.Int).SetString(decPart, 10)
		if !ok {
			return nil, stakeerr.ErrInvalidAmount
		}

		result = result.Add(result, decVal)
	}

	return result, nil
}

// FormatTokenAmount converts a base-unit amount to a human-readable decimal
// string. Trailing zeros after the decimal point are removed.
// For example, 1500000000000000000 returns "1.5".
func FormatTokenAmount(amount *big.Int) string {
	if amount == nil {
		return "0"
	}

	str := amount.String()

	for len(str) <= TokenDecimals {
		str = "0" + str
	}

	decimalPos := len(str) - TokenDecimals
	result := str[:decimalPos] + "." + str[decimalPos:]

	for len(result) > 1 && result[len(result)-1] == '0' && result[len(result)-2] != '.' {
		result = result[:len(result)-1]
	}

	return result
}

// FormatTokenAmountFixed formats a base-unit amount with exactly two decimal
// places for display, truncating the remainder.
func FormatTokenAmountFixed(amount *big.Int) string {
	if amount == nil {
		return "0.00"
	}

	str := amount.String()
	for len(str) <= TokenDecimals {
		str = "0" + str
	}

	decimalPos := len(str) - TokenDecimals
	return str[:decimalPos] + "." + str[decimalPos:decimalPos+2]
}
