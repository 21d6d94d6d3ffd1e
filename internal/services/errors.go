package services

import (
	"fmt"

	"market-pos/internal/status"
)

var errVendorNotFound = fmt.Errorf("vendors %q: %w", "share token", status.ErrNotFound)
