package service

import (
	"fmt"
	"sort"
	"strings"

	"hive-food/internal/domain"
)

// The aggregator is recomputed from the live item set on every call.
// Nothing here is cached or persisted.

const deadlineFormat = "2006-01-02 15:04"

// TotalsByPerson groups items by submitter. Items without a price
// contribute zero to the subtotal but still count toward the item
// count. Submitters that no longer resolve in the user directory are
// excluded. The result is sorted by display name, case-insensitive.
func TotalsByPerson(items []domain.OrderItem, users map[int]domain.User) []domain.PersonTotal {
	byUser := map[int]*domain.PersonTotal{}
	for _, item := range items {
		user, ok := users[item.UserID]
		if !ok {
			continue
		}
		total, ok := byUser[item.UserID]
		if !ok {
			total = &domain.PersonTotal{
				UserID:   user.ID,
				FullName: user.FullName,
				Email:    user.Email,
			}
			byUser[item.UserID] = total
		}
		total.ItemCount += item.Quantity
		if item.PriceCents != nil {
			total.SubtotalCents += *item.PriceCents * int64(item.Quantity)
		}
	}

	totals := make([]domain.PersonTotal, 0, len(byUser))
	for _, total := range byUser {
		totals = append(totals, *total)
	}
	sort.Slice(totals, func(i, j int) bool {
		return strings.ToLower(totals[i].FullName) < strings.ToLower(totals[j].FullName)
	})
	return totals
}

func GrandTotalCents(totals []domain.PersonTotal) int64 {
	var sum int64
	for _, total := range totals {
		sum += total.SubtotalCents
	}
	return sum
}

func GrandCount(totals []domain.PersonTotal) int {
	var count int
	for _, total := range totals {
		count += total.ItemCount
	}
	return count
}

// OrderTranscript builds the grouped, human-readable text used to place
// the real order. Items appear in creation order within each person;
// persons are sorted by name, case-insensitive, with a "User {id}"
// fallback when the submitter no longer resolves.
func OrderTranscript(session *domain.OrderSession, items []domain.OrderItem, users map[int]domain.User) string {
	byPerson := map[string][]domain.OrderItem{}
	for _, item := range items {
		name := fmt.Sprintf("User %d", item.UserID)
		if user, ok := users[item.UserID]; ok {
			name = user.FullName
		}
		byPerson[name] = append(byPerson[name], item)
	}

	persons := make([]string, 0, len(byPerson))
	for name := range byPerson {
		persons = append(persons, name)
	}
	sort.Slice(persons, func(i, j int) bool {
		return strings.ToLower(persons[i]) < strings.ToLower(persons[j])
	})

	var lines []string
	lines = append(lines, fmt.Sprintf("%s — %s", session.Title, session.Restaurant))
	lines = append(lines, fmt.Sprintf("Deadline: %s | Status: %s", session.DeadlineAt.Format(deadlineFormat), session.Status))
	lines = append(lines, "")
	for _, person := range persons {
		lines = append(lines, person+":")
		for _, item := range byPerson[person] {
			qty := ""
			if item.Quantity != 1 {
				qty = fmt.Sprintf("%dx ", item.Quantity)
			}
			note := ""
			if item.Notes != "" {
				note = fmt.Sprintf(" (%s)", item.Notes)
			}
			lines = append(lines, fmt.Sprintf("  - %s%s%s", qty, item.ItemName, note))
		}
		lines = append(lines, "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
