package lightcurve

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// LoadCSV reads a two-column time,flux CSV file into a Series. A first
// row that does not parse as numbers is treated as a header and skipped.
// Extra columns are ignored.
func LoadCSV(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comment = '#'

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("lightcurve: reading %s: %w", path, err)
	}

	var time, flux []float64

	for i, rec := range records {
		if len(rec) < 2 {
			return nil, fmt.Errorf("lightcurve: %s row %d: need two columns", path, i+1)
		}

		t, errT := strconv.ParseFloat(rec[0], 64)
		y, errY := strconv.ParseFloat(rec[1], 64)

		if errT != nil || errY != nil {
			if i == 0 {
				continue // header row
			}

			return nil, fmt.Errorf("lightcurve: %s row %d: bad number", path, i+1)
		}

		time = append(time, t)
		flux = append(flux, y)
	}

	return New(time, flux)
}
