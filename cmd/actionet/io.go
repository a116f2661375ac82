// SPDX-License-Identifier: MIT

package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/multires"
)

var errEmptyInput = errors.New("empty input")

// readMatrix parses a numeric CSV into a features × samples matrix. Rows must
// have equal length; blank lines are skipped. With samplesInRows the CSV is
// transposed on the way in.
func readMatrix(r io.Reader, samplesInRows bool) (*mat.Dense, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var (
		data       []float64
		rows, cols int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			cols = len(rec)
		}
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", rows+1, j+1, err)
			}
			data = append(data, v)
		}
		rows++
	}
	if rows == 0 || cols == 0 {
		return nil, errEmptyInput
	}

	m := mat.NewDense(rows, cols, data)
	if samplesInRows {
		return mat.DenseCopyOf(m.T()), nil
	}

	return m, nil
}

// writeAssignments writes "sample,label" rows with a header.
func writeAssignments(w io.Writer, a multires.Assignment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"sample", "label"}); err != nil {
		return err
	}
	for i, l := range a.Labels {
		if err := cw.Write([]string{strconv.Itoa(i), strconv.Itoa(l)}); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// writeSummary prints one line per level and the unified group sizes.
func writeSummary(w io.Writer, res *multires.Result) {
	fmt.Fprintf(w, "stacked archetypes:   %d\n", res.Stacked.Len())
	fmt.Fprintf(w, "pruned archetypes:    %d\n", res.Pruned.Len())
	fmt.Fprintf(w, "unified archetypes:   %d\n", res.Unified.Len())
	fmt.Fprintf(w, "reconstruction error: %.6g\n", res.ReconstructionError)
	if len(res.Warnings) > 0 {
		fmt.Fprintf(w, "non-converged k:      %d\n", len(res.Warnings))
	}
	counts := res.Unified.Assignment.Counts()
	var pvals *mat.Dense
	if res.Markers != nil {
		pvals = res.Markers.UpperPValues()
	}
	for c, label := range res.Unified.Assignment.Categories {
		fmt.Fprintf(w, "  archetype %d (%s): %d samples", label, res.Unified.Representatives[label], counts[c])
		if res.Markers != nil {
			z := mat.Col(nil, c, res.Markers.Upper)
			top := floats.MaxIdx(z)
			fmt.Fprintf(w, ", top feature %d (z=%.2f, p=%.3g)", top, z[top], pvals.At(top, c))
		}
		fmt.Fprintln(w)
	}
}
