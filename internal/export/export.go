// Package export writes refined menus to durable storage.
package export

import (
	"context"
	"fmt"
	"time"
)

// Exporter stores an exported menu document under key and returns the
// location it was written to.
type Exporter interface {
	Export(ctx context.Context, key string, doc []byte) (string, error)
}

// Key names the export of a session taken at t.
func Key(sessionID string, t time.Time) string {
	return fmt.Sprintf("%s/%d.json", sessionID, t.Unix())
}
