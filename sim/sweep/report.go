package sweep

import (
	"encoding/json"
	"fmt"
	"io"
)

// Print writes the sweep result as a header line followed by indented JSON.
func (r *Result) Print(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sweep result: %w", err)
	}
	fmt.Fprintln(w, "=== Sweep Results ===")
	fmt.Fprintln(w, string(data))
	fmt.Fprintf(w, "Efficiency: %.4f\n", r.MeanEfficiency)
	return nil
}
