package output

import (
	"encoding/json"
	"io"

	"github.com/yiranlandtour/solana-move/internal/types"
)

// JSONFormatter outputs the full audit report as indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(w io.Writer, report *types.AuditReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
