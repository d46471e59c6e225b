package neuromisc

import (
	"io"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file. The reader is rewound to its
// start before returning so the caller can parse it from the top.
func DetermineDelimiter(r io.ReadSeeker) (rune, error) {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	if len(delimiters) > 0 {
		return rune(delimiters[0][0]), nil
	}

	return ',', nil
}
