package handlers

import (
	"testing"

	"github.com/plaid/plaid-go/v32/plaid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrackhq/fintrack-backend/models"
)

func plaidTx(name string, amount float64, date string, categories []string) plaid.Transaction {
	var tx plaid.Transaction
	tx.SetName(name)
	tx.SetAmount(amount)
	tx.SetDate(date)
	if categories != nil {
		tx.SetCategory(categories)
	}
	return tx
}

func TestPlaidImportBody(t *testing.T) {
	t.Run("positive amounts become expenses", func(t *testing.T) {
		body := plaidImportBody(plaidTx("Coffee Shop", 4.5, "2024-01-15", []string{"Food", "Restaurants"}))

		assert.Equal(t, "Coffee Shop", body["title"])
		assert.Equal(t, 4.5, body["amount"])
		assert.Equal(t, "expense", body["type"])
		assert.Equal(t, "Food", body["category"])
		assert.Equal(t, "2024-01-15", body["date"])
	})

	t.Run("negative amounts become income with the sign flipped", func(t *testing.T) {
		body := plaidImportBody(plaidTx("Payroll", -2500, "2024-01-31", []string{"Transfer"}))

		assert.Equal(t, "income", body["type"])
		assert.Equal(t, 2500.0, body["amount"])
	})

	t.Run("missing categories fall back to Uncategorized", func(t *testing.T) {
		noCats := plaidImportBody(plaidTx("Mystery", 10, "2024-01-15", nil))
		emptyCats := plaidImportBody(plaidTx("Mystery", 10, "2024-01-15", []string{}))

		assert.Equal(t, "Uncategorized", noCats["category"])
		assert.Equal(t, "Uncategorized", emptyCats["category"])
	})
}

// Imported transactions go through the same validation as manual entries;
// these cover the create-path behavior the sync loop relies on.
func TestPlaidImportValidation(t *testing.T) {
	caller := CallerContext{Mode: CallerSession, OwnerID: "u1"}

	t.Run("a valid import builds a normalized owned record", func(t *testing.T) {
		body := plaidImportBody(plaidTx("  Coffee Shop ", 4.5, "2024-01-15", []string{"Food"}))

		tx, apiErr := buildTransaction(body, caller)
		require.Nil(t, apiErr)
		assert.Equal(t, "Coffee Shop", tx.Title)
		assert.Equal(t, 4.5, tx.Amount)
		assert.Equal(t, models.Expense, tx.Type)
		assert.Equal(t, "u1", tx.UserID)
		assert.Equal(t, "2024-01-15", tx.Date.Format("2006-01-02"))
	})

	t.Run("a zero-amount import is rejected, not stored", func(t *testing.T) {
		body := plaidImportBody(plaidTx("Pending hold", 0, "2024-01-15", []string{"Food"}))

		_, apiErr := buildTransaction(body, caller)
		require.NotNil(t, apiErr)
		assert.Equal(t, models.ErrInvalidAmount, apiErr.Kind)
	})

	t.Run("an unparseable import date is rejected", func(t *testing.T) {
		body := plaidImportBody(plaidTx("Coffee", 4.5, "01/15/2024", []string{"Food"}))

		_, apiErr := buildTransaction(body, caller)
		require.NotNil(t, apiErr)
		assert.Equal(t, models.ErrInvalidDate, apiErr.Kind)
	})
}
