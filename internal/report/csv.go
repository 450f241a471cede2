// Package report writes experiment results: CSV outcome files, a terminal
// progress bar and a summary box.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tomonatu8/envy-free-matching/experiment"
)

// OwnFileName names the file of v[p][p] values: outcome_p_<n_each>_<groups>_<items>.csv.
func OwnFileName(p experiment.Params) string {
	return fmt.Sprintf("outcome_p_%d_%d_%d.csv", p.NEach, p.NumGroups, p.NumItems)
}

// NextFileName names the file of v[p][(p+1) mod G] values: outcome_pq_<n_each>_<groups>_<items>.csv.
func NextFileName(p experiment.Params) string {
	return fmt.Sprintf("outcome_pq_%d_%d_%d.csv", p.NEach, p.NumGroups, p.NumItems)
}

var csvHeader = []string{"trial", "seed", "group", "value"}

// WriteCSV creates dir if needed and writes both outcome files, one row per
// trial and group. It returns the paths written.
func WriteCSV(dir string, res *experiment.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	own := filepath.Join(dir, OwnFileName(res.Params))
	if err := writeValues(own, res, func(tr experiment.Trial) []float64 { return tr.Valuations.Own() }); err != nil {
		return nil, err
	}
	next := filepath.Join(dir, NextFileName(res.Params))
	if err := writeValues(next, res, func(tr experiment.Trial) []float64 { return tr.Valuations.Next() }); err != nil {
		return nil, err
	}

	return []string{own, next}, nil
}

func writeValues(path string, res *experiment.Result, values func(experiment.Trial) []float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("report: %w", cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err = w.Write(csvHeader); err != nil {
		return fmt.Errorf("report: %s: %w", path, err)
	}
	for _, tr := range res.Trials {
		idx, seed := strconv.Itoa(tr.Index), strconv.FormatUint(tr.Seed, 10)
		for p, v := range values(tr) {
			rec := []string{idx, seed, strconv.Itoa(p), strconv.FormatFloat(v, 'g', -1, 64)}
			if err = w.Write(rec); err != nil {
				return fmt.Errorf("report: %s: %w", path, err)
			}
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return fmt.Errorf("report: %s: %w", path, err)
	}

	return nil
}
