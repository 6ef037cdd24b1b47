package main

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidServeMode = errors.New("invalid serve mode")

type ServeMode string

const (
	ServeModeMonolith ServeMode = "monolith"
	ServeModeWeb      ServeMode = "web"
	ServeModeAPI      ServeMode = "api"
)

func ParseServeMode(rawInput string) (ServeMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(rawInput))
	if normalized == "" {
		return ServeModeMonolith, nil
	}

	mode := ServeMode(normalized)
	switch mode {
	case ServeModeMonolith, ServeModeWeb, ServeModeAPI:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidServeMode, rawInput)
	}
}

// ServesWeb reports whether the page, sitemap and assets are served.
func (mode ServeMode) ServesWeb() bool {
	return mode == ServeModeMonolith || mode == ServeModeWeb
}

// ServesAPI reports whether the visitor API is served.
func (mode ServeMode) ServesAPI() bool {
	return mode == ServeModeMonolith || mode == ServeModeAPI
}
