// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package inject

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/toeirei/redtoken/internal/model"
)

const (
	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	symbols      = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// DefaultTokenLength is the number of random characters after the prefix.
	DefaultTokenLength = 32
	// DefaultPrefix marks generated values.
	DefaultPrefix = "RT_"
)

// Generator produces random token values.
type Generator struct {
	Length         int
	Prefix         string
	IncludeSymbols bool
}

// Generate returns Prefix followed by Length random characters. With
// IncludeSymbols roughly one character in five is drawn from the symbol set.
func (g Generator) Generate() (string, error) {
	n := g.Length
	if n <= 0 {
		n = DefaultTokenLength
	}
	var b strings.Builder
	b.Grow(len(g.Prefix) + n)
	b.WriteString(g.Prefix)
	for i := 0; i < n; i++ {
		set := alphanumeric
		if g.IncludeSymbols {
			roll, err := randInt(5)
			if err != nil {
				return "", err
			}
			if roll == 0 {
				set = symbols
			}
		}
		idx, err := randInt(len(set))
		if err != nil {
			return "", err
		}
		b.WriteByte(set[idx])
	}
	v := b.String()
	if err := model.ValidateValue(v); err != nil {
		return "", err
	}
	return v, nil
}

// randInt returns a uniform value in [0, n) from the system CSPRNG.
func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, model.ValidationError("random source unavailable: " + err.Error())
	}
	return int(v.Int64()), nil
}

// randSuffix returns a three digit number in [100, 999].
func randSuffix() (int, error) {
	n, err := randInt(900)
	if err != nil {
		return 0, err
	}
	return 100 + n, nil
}
