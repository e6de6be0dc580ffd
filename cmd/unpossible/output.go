package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/zeusync/unpossible/internal/scenario"
	"gopkg.in/yaml.v3"
)

var errExpectationsFailed = errors.New("expectations failed")

func writeResults(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// failures returns errExpectationsFailed listing every failed scenario, or nil.
func failures(results ...scenario.Result) error {
	var errs []error
	for _, r := range results {
		for _, f := range r.Failures {
			errs = append(errs, fmt.Errorf("%s: %s", r.Name, f))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", errExpectationsFailed, errors.Join(errs...))
}
