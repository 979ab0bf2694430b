package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mmynk/basket/internal/calculator"
	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/state"
	"github.com/mmynk/basket/internal/style"
)

var printer = message.NewPrinter(language.English)

// formatPrice renders a price with two decimals and thousands separators.
func formatPrice(p float64) string {
	return printer.Sprintf("$%.2f", p)
}

func describeError(err error) string {
	switch {
	case errors.Is(err, state.ErrSessionExpired):
		return "your session has expired; run 'basket login' again"
	case errors.Is(err, state.ErrAlreadyFriends):
		return "you are already friends"
	case errors.Is(err, state.ErrSelfReference):
		return "you cannot add yourself as a friend"
	case errors.Is(err, state.ErrInvalidCredential):
		return "wrong email or password"
	case errors.Is(err, state.ErrNothingToClear):
		return "no completed items to clear"
	case errors.Is(err, state.ErrPersistence):
		return fmt.Sprintf("could not save the change, nothing was modified (%v)", err)
	}
	return err.Error()
}

func printItems(w io.Writer, items []models.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, style.Dim.Render("Your grocery list is empty."))
		return
	}
	width := len(strconv.Itoa(len(items)))
	for i, item := range items {
		name := item.Name
		if item.Completed {
			name = style.Done.Render(name)
		}
		fmt.Fprintf(w, "%*d. %s %s %s %s %s\n",
			width, i+1,
			style.Checkbox(item.Completed),
			name,
			style.Dim.Render("("+string(item.Category)+")"),
			formatPrice(item.Price),
			style.Dim.Render(shortID(item.ID)),
		)
	}
}

func printSummary(w io.Writer, s calculator.Summary) {
	if s.Count == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s %d items, %d picked up, %s total, %s left to buy\n",
		style.Bold.Render("Summary:"), s.Count, s.Completed, formatPrice(s.Total), formatPrice(s.Remaining))
	parts := make([]string, 0, len(s.ByCategory))
	for _, c := range s.ByCategory {
		parts = append(parts, fmt.Sprintf("%s %d (%s)", c.Category, c.Count, formatPrice(c.Total)))
	}
	fmt.Fprintln(w, style.Dim.Render(strings.Join(parts, ", ")))
}

func printFriends(w io.Writer, friends []models.Friend) {
	if len(friends) == 0 {
		fmt.Fprintln(w, style.Dim.Render("No friends yet. Add one with 'basket friends add <username|email>'."))
		return
	}
	for _, f := range friends {
		since := time.Unix(f.CreatedAt, 0).Format("2006-01-02")
		fmt.Fprintf(w, "  %s %s %s\n", style.Bold.Render(f.Username), f.Email, style.Dim.Render("since "+since))
	}
}

func printUsers(w io.Writer, users []models.User, me string, friends []models.Friend) {
	isFriend := make(map[string]bool, len(friends))
	for _, f := range friends {
		isFriend[f.ID] = true
	}
	for _, u := range users {
		marker := " "
		switch {
		case u.ID == me:
			marker = "*"
		case isFriend[u.ID]:
			marker = style.SuccessPrefix
		}
		fmt.Fprintf(w, "%s %s %s\n", marker, style.Bold.Render(u.Username), style.Dim.Render(u.Email))
	}
}

func printAPILogs(w io.Writer, logs []models.APILog) {
	if len(logs) == 0 {
		fmt.Fprintln(w, style.Dim.Render("No API calls recorded."))
		return
	}
	for _, l := range logs {
		ts := time.UnixMilli(l.Timestamp).Format(time.DateTime)
		status := style.Success.Render(strconv.Itoa(l.Status))
		if l.Status == 0 || l.Status >= 400 {
			status = style.Error.Render(strconv.Itoa(l.Status))
		}
		fmt.Fprintf(w, "%s %s %s %s %s\n", style.Dim.Render(ts), l.Method, l.Endpoint, status,
			style.Dim.Render(fmt.Sprintf("%dms", l.DurationMs)))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
