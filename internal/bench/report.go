package bench

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// WriteTable prints one line per thread count followed by the fastest
// configurations. The table is built in memory and written to w once.
func WriteTable(w io.Writer, rep Report, top int) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "run %s: length=%d engines=%v\n", rep.RunID, rep.Length, rep.Engines)
	for _, res := range rep.Results {
		fmt.Fprintf(&b, "%3d: %12s/step  speedup=%.2f  gen=%d\n",
			res.Threads, res.PerStep.Round(time.Microsecond), res.Speedup, res.Generation)
	}

	sorted := append([]Result(nil), rep.Results...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PerStep < sorted[j].PerStep })
	if top > 0 && len(sorted) > 0 {
		fmt.Fprintf(&b, "\nTop %d:\n", min(top, len(sorted)))
		for i := 0; i < len(sorted) && i < top; i++ {
			res := sorted[i]
			fmt.Fprintf(&b, "%2d) threads=%d per_step=%s speedup=%.2f\n",
				i+1, res.Threads, res.PerStep.Round(time.Microsecond), res.Speedup)
		}
	}
	if !rep.Consistent() {
		fmt.Fprintln(&b, "\nWARNING: final grids differ between thread counts")
	}
	_, err := w.Write(b.Bytes())
	return err
}

// WriteYAML encodes the whole report.
func WriteYAML(w io.Writer, rep Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}
