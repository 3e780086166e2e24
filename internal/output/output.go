package output

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/giftwish/cli/internal/domain"
)

// JSON prints v as indented JSON to stdout.
func JSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// ItemTable prints wishlist items as a human-readable table.
func ItemTable(items []domain.WishlistItem) {
	if len(items) == 0 {
		fmt.Println("No wishlist items.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tLINK\tPURCHASED")

	for _, it := range items {
		purchased := "-"
		if it.IsPurchased {
			purchased = it.PurchasedBy
			if !it.PurchasedAt.IsZero() {
				purchased = fmt.Sprintf("%s (%s)", it.PurchasedBy, RelativeTime(it.PurchasedAt))
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", shortID(it.ID.String()), it.Name, FormatPrice(it.Price), it.Link, purchased)
	}
	w.Flush()
}

// ItemDetail prints a single item's details.
func ItemDetail(it domain.WishlistItem) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", it.Name)
	fmt.Fprintf(w, "ID:\t%s\n", it.ID)
	if it.Description != "" {
		fmt.Fprintf(w, "Description:\t%s\n", it.Description)
	}
	if it.Price != nil {
		fmt.Fprintf(w, "Price:\t%s\n", FormatPrice(it.Price))
	}
	if it.Link != "" {
		fmt.Fprintf(w, "Link:\t%s\n", it.Link)
	}
	fmt.Fprintf(w, "Purchased:\t%v\n", it.IsPurchased)
	if it.IsPurchased {
		fmt.Fprintf(w, "Purchased By:\t%s\n", it.PurchasedBy)
		if !it.PurchasedAt.IsZero() {
			fmt.Fprintf(w, "Purchased At:\t%s\n", it.PurchasedAt.Format(time.RFC3339))
		}
	}
	w.Flush()
}

// GroupTable prints groups.
func GroupTable(groups []domain.Group) {
	if len(groups) == 0 {
		fmt.Println("No groups.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMEMBERS\tPENDING\tROLE")
	for _, g := range groups {
		role := "member"
		if g.IsAdmin {
			role = "admin"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", shortID(g.ID.String()), g.Name, len(g.Members), len(g.PendingInvitations), role)
	}
	w.Flush()
}

// GroupDetail prints a group's members and pending invitations.
func GroupDetail(g domain.Group) {
	fmt.Printf("%s (%s)\n\n", g.Name, g.ID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEMBER\tID\tITEMS\tKIDS")
	for _, m := range g.Members {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", m.Name, m.ID, len(m.WishlistItems), len(m.Kids))
	}
	w.Flush()

	if len(g.PendingInvitations) > 0 {
		fmt.Println()
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "INVITED\tROLE\tSENT")
		for _, inv := range g.PendingInvitations {
			sent := "-"
			if !inv.InvitedAt.IsZero() {
				sent = RelativeTime(inv.InvitedAt)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", inv.Email, inv.Role, sent)
		}
		w.Flush()
	}
}

// KidTable prints kids.
func KidTable(kids []domain.Kid) {
	if len(kids) == 0 {
		fmt.Println("No kids.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBIRTHDATE\tITEMS\tGUARDIANS")
	for _, k := range kids {
		birthdate := "-"
		if !k.Birthdate.IsZero() {
			birthdate = k.Birthdate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", shortID(k.ID.String()), k.Name, birthdate, len(k.WishlistItems), len(k.GuardianEmails))
	}
	w.Flush()
}

// IdeaTable prints gift ideas.
func IdeaTable(ideas []domain.GiftIdea) {
	if len(ideas) == 0 {
		fmt.Println("No gift ideas.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFOR\tGIFT\tPURCHASED\tNOTES")
	for _, idea := range ideas {
		purchased := "-"
		if idea.IsPurchased {
			purchased = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", shortID(idea.ID.String()), idea.PersonName, idea.GiftName, purchased, idea.Notes)
	}
	w.Flush()
}

// UserInfo prints the current user's profile.
func UserInfo(u domain.User) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", u.Name)
	fmt.Fprintf(w, "Email:\t%s\n", u.Email)
	fmt.Fprintf(w, "ID:\t%s\n", u.ID)
	if !u.Birthdate.IsZero() {
		fmt.Fprintf(w, "Birthdate:\t%s\n", u.Birthdate.Format("2006-01-02"))
	}
	if !u.Sizes.IsZero() {
		fmt.Fprintf(w, "Sizes:\t%s\n", FormatSizes(u.Sizes))
	}
	w.Flush()
}

// Summary prints a one-screen overview of the snapshot.
func Summary(s *domain.Snapshot) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "User:\t%s <%s>\n", s.CurrentUser.Name, s.CurrentUser.Email)
	fmt.Fprintf(w, "Wishlist items:\t%d\n", len(s.WishlistItems))
	fmt.Fprintf(w, "Kids:\t%d\n", len(s.Kids))
	fmt.Fprintf(w, "Groups:\t%d\n", len(s.Groups))
	fmt.Fprintf(w, "Gift ideas:\t%d\n", len(s.GiftIdeas))
	w.Flush()
}

// FormatPrice renders an optional price, "-" when unset.
func FormatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *p)
}

// FormatSizes renders the non-empty sizes as "shirt=M pants=32".
func FormatSizes(s domain.Sizes) string {
	out := ""
	add := func(label, v string) {
		if v == "" {
			return
		}
		if out != "" {
			out += " "
		}
		out += label + "=" + v
	}
	add("shirt", s.Shirt)
	add("pants", s.Pants)
	add("shoes", s.Shoes)
	add("sweatshirt", s.Sweatshirt)
	add("hat", s.Hat)
	if out == "" {
		return "-"
	}
	return out
}

// RelativeTime formats a timestamp relative to now (e.g. "2h ago", "3d ago").
func RelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// shortID trims a uuid to its first block for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
