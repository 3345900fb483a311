package model

import "fmt"

// Mode selects where a DataSource gets its responses from.
type Mode string

const (
	ModeMock Mode = "mock"
	ModeLive Mode = "live"
)

// ParseMode matches "mock" and "live" exactly. Blank input means mock, and
// anything else also comes back as mock, alongside an error the caller can
// warn on.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", string(ModeMock):
		return ModeMock, nil
	case string(ModeLive):
		return ModeLive, nil
	default:
		return ModeMock, fmt.Errorf("unknown data source mode: %s", s)
	}
}
