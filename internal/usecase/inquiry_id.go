package usecase

import (
	"fmt"
	"strings"
	"time"
)

// NewInquiryID builds the user-visible inquiry identifier:
// INQ-<epoch millis>-<company prefix, uppercased, spaces stripped, max 8>.
// The format appears in emails already sent to customers; do not change it.
func NewInquiryID(ts time.Time, companyName string) string {
	prefix := strings.ToUpper(strings.ReplaceAll(companyName, " ", ""))
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("INQ-%d-%s", ts.UnixMilli(), prefix)
}
