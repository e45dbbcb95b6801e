package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/payshield/payshield-cli/internal/client/api"
	"github.com/payshield/payshield-cli/internal/client/models"
	"github.com/payshield/payshield-cli/internal/client/validation"
)

// List prints the current page of transactions through the cache.
func (a *App) List(ctx context.Context) error {
	if !a.requireAuth() {
		return nil
	}

	page, err := a.cache.FetchPage(ctx, a.pager.Limit(), a.pager.Offset())
	if err != nil {
		fmt.Fprintf(a.out, "Could not load transactions: %s\n", err)
		return err
	}

	if len(page.Items) == 0 {
		fmt.Fprintf(a.out, "No transactions on page %d\n", a.pager.Page())
		return nil
	}

	fmt.Fprintf(a.out, "Page %d (%d rows)\n", a.pager.Page(), len(page.Items))
	for _, tx := range page.Items {
		fmt.Fprintf(a.out, "  #%-6d %10.2f %-11s risk %5.1f  %s\n",
			tx.ID, tx.Amount, tx.Mode, tx.RiskScore, tx.Decision)
	}
	if page.Stale {
		fmt.Fprintln(a.out, "  (cached view, refreshing in background)")
	}
	if page.HasMore {
		fmt.Fprintln(a.out, "  ('next' for more)")
	}
	return nil
}

// Show prints one transaction in detail. The id comes from the command
// argument or an interactive prompt.
func (a *App) Show(ctx context.Context, args []string) error {
	if !a.requireAuth() {
		return nil
	}

	raw := ""
	if len(args) > 0 {
		raw = args[0]
	} else {
		var err error
		raw, err = getSimpleText(a.reader, "Enter transaction id", a.out)
		if err != nil {
			return err
		}
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid id %q\n", raw)
		return err
	}

	tx, err := a.api.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			fmt.Fprintf(a.out, "Transaction %d not found\n", id)
		} else {
			fmt.Fprintf(a.out, "Could not load transaction: %s\n", err)
		}
		return err
	}

	fmt.Fprintf(a.out, "Transaction #%d\n", tx.ID)
	fmt.Fprintf(a.out, "  Amount:    %.2f\n", tx.Amount)
	fmt.Fprintf(a.out, "  Mode:      %s\n", tx.Mode)
	fmt.Fprintf(a.out, "  Decision:  %s\n", tx.Decision)
	fmt.Fprintf(a.out, "  Risk:      %.1f\n", tx.RiskScore)
	if len(tx.TriggeredFactors) > 0 {
		fmt.Fprintf(a.out, "  Factors:   %s\n", strings.Join(tx.TriggeredFactors, ", "))
	}
	printDeviation(a, "amount", tx.AmountDeviationScore)
	printDeviation(a, "frequency", tx.FrequencyDeviationScore)
	printDeviation(a, "mode", tx.ModeDeviationScore)
	printDeviation(a, "time", tx.TimeDeviationScore)
	fmt.Fprintf(a.out, "  Created:   %s\n", tx.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func printDeviation(a *App, name string, score *float64) {
	if score != nil {
		fmt.Fprintf(a.out, "  Deviation (%s): %.2f\n", name, *score)
	}
}

// Create prompts for amount and mode, submits the transaction and prints
// the risk decision. The fresh row invalidates the cached pages.
func (a *App) Create(ctx context.Context) error {
	if !a.requireAuth() {
		return nil
	}

	rawAmount, err := getSimpleText(a.reader, "Enter amount", a.out)
	if err != nil {
		return err
	}
	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid amount %q\n", rawAmount)
		return err
	}
	if err := validation.Amount(amount); err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}

	rawMode, err := getSimpleText(a.reader, "Enter mode (UPI, CARD, NETBANKING)", a.out)
	if err != nil {
		return err
	}
	mode := models.TransactionMode(strings.ToUpper(strings.TrimSpace(rawMode)))
	if !mode.Valid() {
		fmt.Fprintf(a.out, "Invalid mode %q\n", rawMode)
		return fmt.Errorf("invalid mode %q", rawMode)
	}

	result, err := a.api.CreateTransaction(ctx, amount, mode)
	if err != nil {
		fmt.Fprintf(a.out, "Could not submit transaction: %s\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Transaction #%d scored: %s (risk %.1f)\n",
		result.ID, result.Decision, result.RiskScore)
	if len(result.TriggeredFactors) > 0 {
		fmt.Fprintf(a.out, "  Factors: %s\n", strings.Join(result.TriggeredFactors, ", "))
	}

	a.cache.Invalidate()
	return nil
}

// Summary prints the account-level risk aggregates.
func (a *App) Summary(ctx context.Context) error {
	if !a.requireAuth() {
		return nil
	}

	s, err := a.api.Summary(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load summary: %s\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Transactions: %d total, %d allowed, %d flagged, %d blocked\n",
		s.TotalTransactions, s.AllowedTransactions, s.FlaggedTransactions, s.BlockedTransactions)
	if len(s.TriggeredFactorsBreakdown) > 0 {
		fmt.Fprintln(a.out, "Triggered factors:")
		for factor, count := range s.TriggeredFactorsBreakdown {
			fmt.Fprintf(a.out, "  %-24s %d\n", factor, count)
		}
	}
	return nil
}

// NextPage advances the pager and shows the page; the prefetcher usually
// makes this a cache hit.
func (a *App) NextPage(ctx context.Context) error {
	if !a.requireAuth() {
		return nil
	}
	a.pager.Next()
	return a.List(ctx)
}

// PrevPage moves back one page, never past the first.
func (a *App) PrevPage(ctx context.Context) error {
	if !a.requireAuth() {
		return nil
	}
	a.pager.Prev()
	return a.List(ctx)
}

// SetPageSize changes the rows per page and resets to page 1.
func (a *App) SetPageSize(ctx context.Context, args []string) error {
	if !a.requireAuth() {
		return nil
	}

	raw := ""
	if len(args) > 0 {
		raw = args[0]
	} else {
		var err error
		raw, err = getSimpleText(a.reader, "Enter rows per page", a.out)
		if err != nil {
			return err
		}
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		fmt.Fprintf(a.out, "Invalid page size %q\n", raw)
		return fmt.Errorf("invalid page size %q", raw)
	}

	a.pager.SetLimit(n)
	return a.List(ctx)
}

// Refresh drops every cached page and refetches the current one.
func (a *App) Refresh(ctx context.Context) error {
	if !a.requireAuth() {
		return nil
	}
	a.cache.Invalidate()
	return a.List(ctx)
}
