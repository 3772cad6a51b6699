package common

import (
	"fmt"
	"strings"
	"time"

	"token-rush-go/internal/models"
	"token-rush-go/internal/token"

	"github.com/shopspring/decimal"
)

const (
	// Default separator widths
	DefaultWidth = 80
	WideWidth    = 100
)

// ANSI color helpers for console output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// PrintSeparator prints a separator line with the specified character and width
func PrintSeparator(char string, width int) {
	fmt.Println(strings.Repeat(char, width))
}

// PrintHeader prints a formatted header with title and separators
func PrintHeader(title string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	fmt.Println(title)
	PrintSeparator("=", width)
}

// BoxPrefix returns the appropriate box-drawing prefix for list items
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

// ShortId shortens long ids for table output
func ShortId(id string) string {
	if id == "" {
		return "none"
	}
	if len(id) > 12 {
		return id[:12] + "..."
	}
	return id
}

// FormatAmount renders a signed token amount with an explicit sign
func FormatAmount(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+" + amount.String()
	}
	return amount.String()
}

func statusColor(status models.TransactionStatus) string {
	switch status {
	case models.StatusConfirmed:
		return colorGreen
	case models.StatusFailed:
		return colorRed
	default:
		return colorYellow
	}
}

// FormatTransaction renders one local record as a table row
func FormatTransaction(record models.TransactionRecord) string {
	hash := ""
	if record.TransactionHash != nil {
		hash = *record.TransactionHash
	}
	return fmt.Sprintf("%s%-9s %-8s %14s  %-15s %s%s",
		statusColor(record.Status),
		record.Status,
		record.Kind,
		FormatAmount(record.Amount),
		ShortId(hash),
		record.CreatedAt.Local().Format("15:04:05"),
		colorReset)
}

// PrintTransactions prints the local transfer history, newest first
func PrintTransactions(records []models.TransactionRecord) {
	if len(records) == 0 {
		fmt.Println("No transactions yet")
		return
	}
	PrintHeader(fmt.Sprintf("%-9s %-8s %14s  %-15s %s", "STATUS", "KIND", "AMOUNT", "TX", "TIME"), DefaultWidth)
	for _, record := range records {
		fmt.Println(FormatTransaction(record))
	}
}

// FormatProviderTransaction renders one provider-side transaction as a table row
func FormatProviderTransaction(tx models.ProviderTransaction) string {
	color, status := colorYellow, tx.Status
	switch {
	case tx.IsFailed():
		color = colorRed
		if status == "" {
			status = models.ProviderStatusFailed
		}
	case tx.IsConfirmed():
		color = colorGreen
		if status == "" {
			status = models.ProviderStatusConfirmed
		}
	}
	if status == "" {
		status = "UNKNOWN"
	}

	hash := ""
	if tx.TransactionHash != nil {
		hash = *tx.TransactionHash
	}
	line := fmt.Sprintf("%s%-10s %-15s %-15s %s%s", color, status, ShortId(tx.Id), ShortId(hash), tx.CreatedAt, colorReset)
	if tx.ErrorMessage != nil && *tx.ErrorMessage != "" {
		line += fmt.Sprintf(" %s(%s)%s", colorGray, *tx.ErrorMessage, colorReset)
	}
	return line
}

// PrintProviderTransactions prints one page of the treasury's transactions
func PrintProviderTransactions(list *models.TransactionList) {
	if list == nil || len(list.Transactions) == 0 {
		fmt.Println("No treasury transactions on this page")
		return
	}
	PrintHeader(fmt.Sprintf("%-10s %-15s %-15s %s", "STATUS", "ID", "TX", "CREATED"), WideWidth)
	for _, tx := range list.Transactions {
		fmt.Println(FormatProviderTransaction(tx))
	}
	if list.Pagination.HasMore {
		fmt.Printf("More on page %d\n", list.Pagination.Page+1)
	}
}

// PrintLeaderboard prints token owners with amounts in token units
func PrintLeaderboard(owners []models.TokenOwner, decimals int32, self string) {
	if len(owners) == 0 {
		fmt.Println("Leaderboard is empty")
		return
	}
	for i, owner := range owners {
		marker := ""
		if token.SameAddress(owner.OwnerAddress, self) {
			marker = " (you)"
		}
		fmt.Printf("%s%d. %s %s%s\n",
			BoxPrefix(i == len(owners)-1),
			i+1,
			token.ChecksumAddress(owner.OwnerAddress),
			token.FormatTokenAmount(owner.Amount, decimals),
			marker)
	}
}

// PrintTransactionUpdate reports a tracked transaction reaching a terminal status
func PrintTransactionUpdate(update models.TransactionUpdate) {
	color := statusColor(update.Status)
	line := fmt.Sprintf("%s[%s] %s %s%s",
		color, time.Now().Format("15:04:05"), ShortId(update.TransactionId), update.Status, colorReset)
	if update.Err != nil {
		line += fmt.Sprintf(" %s(%s)%s", colorGray, update.Err, colorReset)
	}
	fmt.Println(line)
}
