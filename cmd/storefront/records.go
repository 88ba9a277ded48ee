package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/pricing"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or clear the persisted session",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the signed-in user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		printSession(cmd.OutOrStdout(), a.sessions.Current())
		return nil
	},
}

var sessionLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the session on this device",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.sessions.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "logged out")
		return nil
	},
}

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect or clear the persisted cart",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cart lines and totals",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		printCart(cmd.OutOrStdout(), a.cart.Lines())
		return nil
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.cart.ClearCart(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cart cleared")
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd, sessionLogoutCmd)
	cartCmd.AddCommand(cartShowCmd, cartClearCmd)
}

func printSession(w io.Writer, s *domain.Session) {
	if s == nil {
		fmt.Fprintln(w, "not signed in")
		return
	}
	role := "customer"
	if s.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(w, "%s <%s> (%s, id %s)\n", s.Name, s.Email, role, s.ID)
}

func printCart(w io.Writer, lines domain.Cart) {
	if lines.IsEmpty() {
		fmt.Fprintln(w, "cart is empty")
		return
	}
	for _, l := range lines {
		fmt.Fprintf(w, "%-10s %-30s %3d x %10.2f = %s\n", l.ProductID, l.Name, l.Qty, l.Price, l.Total().StringFixed(2))
	}
	b := pricing.Compute(lines.Subtotal())
	fmt.Fprintf(w, "items     %d\n", lines.TotalQuantity())
	fmt.Fprintf(w, "subtotal  %s\n", b.Subtotal.StringFixed(2))
	fmt.Fprintf(w, "shipping  %s\n", b.Shipping.StringFixed(2))
	fmt.Fprintf(w, "tax       %s\n", b.Tax.StringFixed(2))
	fmt.Fprintf(w, "total     %s\n", b.Total.StringFixed(2))
}
