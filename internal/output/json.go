package output

import (
	"encoding/json"

	"github.com/linkscout/linkscout/internal/core"
)

// JSONFormatter renders connection records as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatConnections renders records as a JSON array.
func (f *JSONFormatter) FormatConnections(records []core.ConnectionRecord) (string, error) {
	if records == nil {
		records = []core.ConnectionRecord{}
	}

	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
