// pipelinectl is a terminal client for the pipeline board. It drives the
// same engine / gate / coordinator stack a UI would: moves are classified
// first, terminal moves go through the confirmation gate, and commits are
// optimistic against a local read-model cache.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"dealdesk/internal/dealstore"
	"dealdesk/internal/models"
	"dealdesk/internal/pipeline"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "Deal store base URL")
	token := flag.String("token", "", "Bearer token (from /login)")
	dealTypeID := flag.Int64("deal-type", 0, "Deal type id")
	assignedTo := flag.Int64("agent", 0, "Filter the board by agent id")
	dealID := flag.Int64("deal", 0, "Deal to move; omit to print the board")
	target := flag.String("to", "", "Target stage code")
	swipe := flag.String("swipe", "", "Move one stage over: next | prev")
	reason := flag.String("reason", "", "Lost reason (min 10 characters for a lost stage)")
	yes := flag.Bool("yes", false, "Confirm a terminal move without prompting")
	flag.Parse()

	if *dealTypeID == 0 {
		fmt.Fprintln(os.Stderr, "Error: --deal-type is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := dealstore.NewClient(*apiURL, *token)
	cache := pipeline.NewReadModel(30 * time.Second)
	coord := pipeline.NewCoordinator(store, cache, func(level, msg string) {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", level, msg)
	})

	filter := pipeline.Filter{DealTypeID: *dealTypeID, AssignedTo: *assignedTo}
	board, err := coord.Board(ctx, filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching board: %v\n", err)
		os.Exit(1)
	}

	if *dealID == 0 {
		printBoard(board)
		return
	}

	deal, ok := findDeal(board, *dealID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: deal %d is not on this board\n", *dealID)
		os.Exit(1)
	}

	dt, err := store.GetDealType(ctx, *dealTypeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching deal type: %v\n", err)
		os.Exit(1)
	}

	to := *target
	if *swipe != "" {
		dir := pipeline.SwipeNext
		if *swipe == "prev" {
			dir = pipeline.SwipePrev
		}
		to, ok = pipeline.SwipeTarget(dt.Stages, deal.CurrentStage, dir)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: no %s stage from %q\n", *swipe, deal.CurrentStage)
			os.Exit(1)
		}
	}
	if to == "" {
		fmt.Fprintln(os.Stderr, "Error: --to or --swipe is required to move a deal")
		os.Exit(1)
	}

	directive, err := pipeline.Decide(deal, dt.Stages, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch directive.Kind {
	case pipeline.DirectiveNone:
		fmt.Printf("%q is already in stage %q\n", deal.Title, to)
		return
	case pipeline.DirectiveCommit:
		if err := coord.ChangeStage(ctx, deal.ID, to, ""); err != nil {
			os.Exit(1)
		}
	case pipeline.DirectiveConfirm:
		gate := pipeline.NewGate(coord)
		if err := gate.Open(directive); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !*yes {
			gate.Cancel()
			kind := "won"
			if directive.IsLost {
				kind = "lost"
			}
			fmt.Fprintf(os.Stderr, "Moving %q to %q closes it as %s. Re-run with --yes to confirm.\n",
				directive.DealName, to, kind)
			os.Exit(1)
		}
		if err := gate.Confirm(ctx, *reason); err != nil {
			if errors.Is(err, pipeline.ErrReasonTooShort) {
				fmt.Fprintf(os.Stderr, "Error: %v (use --reason)\n", err)
			}
			os.Exit(1)
		}
	}
	fmt.Printf("moved %q to %q\n", deal.Title, to)
}

func findDeal(board models.PipelineBoard, id int64) (models.Deal, bool) {
	for _, stage := range board.Stages {
		for _, deal := range stage.Deals {
			if deal.ID == id {
				return deal, true
			}
		}
	}
	return models.Deal{}, false
}

func printBoard(board models.PipelineBoard) {
	for _, stage := range board.Stages {
		fmt.Printf("%s (%d, $%s)\n", stage.Name, stage.Count, pipeline.FormatDollar(stage.TotalValue))
		for _, deal := range stage.Deals {
			fmt.Printf("  #%d %s — $%s [%s]\n", deal.ID, deal.Title, pipeline.FormatDollar(deal.DealValue), deal.Status)
		}
	}
	s := board.Summary
	fmt.Printf("\n%d deals, $%s total; %d open, %d won ($%s), %d lost\n",
		s.TotalDeals, pipeline.FormatDollar(s.TotalValue), s.OpenDeals,
		s.WonDeals, pipeline.FormatDollar(s.WonValue), s.LostDeals)
}
