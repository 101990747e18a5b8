package main

import (
	"fmt"
	"strconv"
	"strings"
)

func parseListParam(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseIntListParam(value string) ([]int, error) {
	out := []int(nil)
	for _, p := range parseListParam(value) {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid numeric value %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}
