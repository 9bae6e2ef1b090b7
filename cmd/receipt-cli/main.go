package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/zombor/receipt-processor/internal/receipt"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, ff.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	rootFlags := ff.NewFlagSet("receipt-cli")
	serverURL := rootFlags.StringLong("server", "http://localhost:8080", "Receipt processor base URL")

	processCmd := &ff.Command{
		Name:      "process",
		Usage:     "receipt-cli process [FLAGS] <receipt.json>",
		ShortHelp: "submit a receipt JSON file and print its ID",
		Flags:     ff.NewFlagSet("process").SetParent(rootFlags),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("process requires exactly one receipt file")
			}
			r, err := loadReceipt(args[0])
			if err != nil {
				return err
			}
			id, err := receipt.NewClient(*serverURL).Process(ctx, r)
			if err != nil {
				return fmt.Errorf("processing receipt: %w", err)
			}
			fmt.Fprintln(stdout, "Receipt processed.")
			fmt.Fprintf(stdout, "ID: %s\n", id)
			return nil
		},
	}

	pointsCmd := &ff.Command{
		Name:      "points",
		Usage:     "receipt-cli points [FLAGS] <id>",
		ShortHelp: "print the points and breakdown for a processed receipt",
		Flags:     ff.NewFlagSet("points").SetParent(rootFlags),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("points requires exactly one receipt ID")
			}
			score, err := receipt.NewClient(*serverURL).Points(ctx, args[0])
			if err != nil {
				return fmt.Errorf("retrieving points: %w", err)
			}
			printScore(stdout, score)
			return nil
		},
	}

	root := &ff.Command{
		Name:        "receipt-cli",
		Usage:       "receipt-cli [FLAGS] <SUBCOMMAND> ...",
		ShortHelp:   "submit receipts to a receipt processor and look up their points",
		Flags:       rootFlags,
		Subcommands: []*ff.Command{processCmd, pointsCmd},
	}

	if err := root.Parse(args, ff.WithEnvVarPrefix("RECEIPT_CLI")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(root.GetSelected()))
		return err
	}
	if err := root.Run(ctx); err != nil {
		if errors.Is(err, ff.ErrNoExec) {
			fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(root))
		}
		return err
	}
	return nil
}

func loadReceipt(path string) (receipt.Receipt, error) {
	var r receipt.Receipt
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return r, fmt.Errorf("reading receipt file: %w", err)
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("parsing receipt file: %w", err)
	}
	return r, nil
}

func printScore(w io.Writer, score receipt.ScoreResult) {
	fmt.Fprintf(w, "Total Points: %d\n", score.Points)
	fmt.Fprintln(w, "Breakdown:")
	for _, line := range score.Breakdown {
		fmt.Fprintf(w, "   %s\n", line)
	}
	fmt.Fprintln(w, "  + ---------")
	fmt.Fprintf(w, "  = %d points\n", score.Points)
}
