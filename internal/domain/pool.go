package domain

import (
	"fmt"
	"strings"
)

type PoolName string

const (
	PoolData1 PoolName = "data1"
	PoolData2 PoolName = "data2"
)

func (n PoolName) Valid() bool {
	return n == PoolData1 || n == PoolData2
}

func ParsePoolName(raw string) (PoolName, error) {
	name := PoolName(strings.ToLower(strings.TrimSpace(raw)))
	if !name.Valid() {
		return "", fmt.Errorf("%w: %q", ErrPoolNotFound, raw)
	}

	return name, nil
}

// SplitLines breaks raw text into allocatable lines: split on newlines,
// trim each line, drop the empty ones.
func SplitLines(raw string) []string {
	parts := strings.Split(raw, "\n")
	lines := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		lines = append(lines, trimmed)
	}

	return lines
}

// AllocationResult is the outcome of one successful allocation: the composed
// text plus how many lines each pool contributed. Total counts drawn lines
// and inserted lines alike.
type AllocationResult struct {
	Text        string
	Count1Drawn int
	Count2Drawn int
	Total       int
}
