package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/2beens/mm2kbench/internal/mm2k"

	"github.com/spf13/cobra"
)

type engineFlags struct {
	oneRm       float64
	rounding    float64
	programPath string
	noWarmups   bool
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.oneRm, "rm", 0, "tested 1RM in kg")
	cmd.Flags().Float64Var(&f.rounding, "rounding", mm2k.DefaultRounding, "plate rounding step in kg")
	cmd.Flags().StringVar(&f.programPath, "program", "", "YAML program file (built-in table when empty)")
	cmd.Flags().BoolVar(&f.noWarmups, "no-warmups", false, "print only the primary rows")
	_ = cmd.MarkFlagRequired("rm")
}

func (f *engineFlags) build() (*mm2k.Engine, mm2k.Athlete, error) {
	program := mm2k.DefaultProgram()
	if f.programPath != "" {
		var err error
		program, err = mm2k.LoadProgramFile(f.programPath)
		if err != nil {
			return nil, mm2k.Athlete{}, err
		}
	}

	var opts []mm2k.EngineOption
	if f.noWarmups {
		opts = append(opts, mm2k.WithoutWarmups())
	}

	a, err := mm2k.NewAthlete("cli", "cli", f.oneRm, f.rounding, time.Now())
	if err != nil {
		return nil, mm2k.Athlete{}, err
	}
	return mm2k.NewEngine(program, opts...), a, nil
}

type planSession struct {
	ID   int               `json:"id"`
	Name string            `json:"name"`
	Rows []mm2k.DisplayRow `json:"rows"`
}

func planCmd() *cobra.Command {
	var (
		flags      engineFlags
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the prescription for every session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, a, err := flags.build()
			if err != nil {
				return err
			}
			return writePlan(cmd.OutOrStdout(), engine, a, outputJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")

	return cmd
}

func writePlan(w io.Writer, engine *mm2k.Engine, a mm2k.Athlete, outputJSON bool) error {
	var sessions []planSession
	for _, s := range engine.Program().Sessions {
		sessions = append(sessions, planSession{
			ID:   s.ID,
			Name: s.Name,
			Rows: engine.BuildRows(a, s.ID),
		})
	}

	if outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	fmt.Fprintf(w, "1RM %s kg, rounding %s kg\n", fmtKg(a.OneRmKg), fmtKg(a.RoundingStep()))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range sessions {
		fmt.Fprintf(tw, "\n#%d %s\n", s.ID, s.Name)
		for _, row := range s.Rows {
			fmt.Fprintf(tw, "  %s\t%s\t%s kg\n", row.Label, row.Reps, fmtKg(row.TargetKg))
		}
	}
	return tw.Flush()
}

func projectCmd() *cobra.Command {
	var (
		flags   engineFlags
		ftInput []string
	)

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Forecast the final 1RM from failure test results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, a, err := flags.build()
			if err != nil {
				return err
			}
			results, err := parseFailureTests(ftInput)
			if err != nil {
				return err
			}
			return writeProjection(cmd.OutOrStdout(), engine, a, results)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringArrayVar(&ftInput, "ft", nil, "failure test result as session:reps, repeatable")

	return cmd
}

type failureTest struct {
	sessionID int
	reps      int
}

var errBadFailureTest = errors.New("failure test must look like session:reps")

func parseFailureTests(input []string) ([]failureTest, error) {
	var results []failureTest
	for _, raw := range input {
		sid, reps, ok := strings.Cut(raw, ":")
		if !ok {
			return nil, fmt.Errorf("%q: %w", raw, errBadFailureTest)
		}
		sessionID, err := strconv.Atoi(strings.TrimSpace(sid))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", raw, errBadFailureTest)
		}
		repsCount, err := strconv.Atoi(strings.TrimSpace(reps))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", raw, errBadFailureTest)
		}
		results = append(results, failureTest{sessionID: sessionID, reps: repsCount})
	}
	return results, nil
}

func writeProjection(w io.Writer, engine *mm2k.Engine, a mm2k.Athlete, results []failureTest) error {
	var err error
	for _, ft := range results {
		a, err = engine.RecordFailureReps(a, ft.sessionID, ft.reps)
		if err != nil {
			return fmt.Errorf("session %d: %w", ft.sessionID, err)
		}
	}

	p := engine.Project(a)
	fmt.Fprintf(w, "base:      %s kg\n", fmtKg(p.Base))
	fmt.Fprintf(w, "delta:     %s kg\n", fmtKg(p.Delta))
	if p.Min == p.Max {
		fmt.Fprintf(w, "projected: %s kg\n", fmtKg(p.Min))
	} else {
		fmt.Fprintf(w, "projected: %s - %s kg\n", fmtKg(p.Min), fmtKg(p.Max))
	}
	fmt.Fprintf(w, "remaining: %d failure tests\n", p.Remaining)
	return nil
}

func fmtKg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
