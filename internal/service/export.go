package service

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"hive-food/internal/domain"
)

// ExportCSV renders a session and its items as CSV: a header section
// describing the session, a blank separator row, then one detail row
// per item in creation order. Prices are formatted to exactly two
// decimals; person columns stay empty when the submitter no longer
// resolves.
func ExportCSV(session *domain.OrderSession, items []domain.OrderItem, users map[int]domain.User) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"session_id", "session_title", "restaurant", "deadline_at", "status"},
		{
			strconv.Itoa(session.ID),
			session.Title,
			session.Restaurant,
			session.DeadlineAt.Format(deadlineFormat),
			string(session.Status),
		},
		{},
		{"person_name", "person_email", "item_name", "quantity", "price_eur", "notes"},
	}

	for _, item := range items {
		var personName, personEmail string
		if user, ok := users[item.UserID]; ok {
			personName = user.FullName
			personEmail = user.Email
		}
		price := ""
		if item.PriceCents != nil {
			price = domain.FormatCents(*item.PriceCents)
		}
		rows = append(rows, []string{
			personName,
			personEmail,
			item.ItemName,
			strconv.Itoa(item.Quantity),
			price,
			item.Notes,
		})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
