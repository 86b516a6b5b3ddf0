package fungible_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/xraph/fungible"
	"github.com/xraph/fungible/store/memory"
)

// TestDocumentationExamples verifies that the examples in the package
// documentation behave as described.
func TestDocumentationExamples(t *testing.T) {
	t.Run("QuickStartExample", func(t *testing.T) {
		owner := fungible.MustParseAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
		alice := fungible.MustParseAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

		supply, err := fungible.Units(10000, 18)
		if err != nil {
			t.Fatal(err)
		}

		// Create store (memory for demo, use PostgreSQL in production)
		l := fungible.New(memory.New(), fungible.Config{
			Name:          "AshishCoin",
			Symbol:        "ASC",
			Decimals:      18,
			TotalSupply:   supply,
			InitialHolder: owner,
		}, fungible.WithLogger(slog.Default()))

		ctx := context.Background()
		if err := l.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer l.Stop()

		if err := l.Transfer(ctx, owner, alice, fungible.NewAmount(1)); err != nil {
			t.Fatal(err)
		}

		if got := l.BalanceOf(alice).String(); got != "1" {
			t.Errorf("alice balance = %s, want 1", got)
		}
		if got := l.BalanceOf(owner).FormatUnits(l.Decimals()); got != "9999.999999999999999999" {
			t.Errorf("owner balance = %s", got)
		}
	})

	t.Run("ErrorsExample", func(t *testing.T) {
		owner := fungible.MustParseAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
		spender := fungible.MustParseAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
		alice := fungible.MustParseAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

		l := fungible.New(memory.New(), fungible.Config{
			Name:          "Example",
			Symbol:        "EXM",
			TotalSupply:   fungible.NewAmount(100),
			InitialHolder: owner,
		})

		ctx := context.Background()
		if err := l.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer l.Stop()

		err := l.TransferFrom(ctx, spender, alice, owner, fungible.NewAmount(1))
		switch {
		case errors.Is(err, fungible.ErrInsufficientAllowance):
			// expected: allowance is checked first
		case errors.Is(err, fungible.ErrInsufficientBalance):
			t.Error("balance was checked before allowance")
		default:
			t.Errorf("unexpected result: %v", err)
		}
	})
}
