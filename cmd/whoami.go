package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripmeter/internal/auth"
	"github.com/theirongolddev/tripmeter/internal/cli"
	"github.com/theirongolddev/tripmeter/internal/config"
)

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"status"},
	Short:   "Show the signed-in travel account",
	RunE:    runWhoami,
}

var whoamiOffline bool

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiOffline, "offline", false, "Only decode the token, do not call the API")
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	sess, err := auth.NewSession(config.GetToken(cfg))
	if errors.Is(err, auth.ErrNoSession) {
		fmt.Println()
		fmt.Println("  Not signed in.")
		fmt.Println()
		fmt.Println("  Sign in on the web app, copy your access token, then configure it:")
		fmt.Println("    tripmeter setup                                  (interactive)")
		fmt.Println("    TRIPMETER_TOKEN=eyJ... tripmeter whoami          (one-shot)")
		fmt.Println()
		return nil
	}
	if err != nil {
		return err
	}

	if !whoamiOffline {
		client, err := newClient(cfg)
		if err != nil {
			return err
		}
		progress("  Fetching account...\n")
		ctx, cancel := commandContext()
		defer cancel()
		if err := sess.Refresh(ctx, client); err != nil {
			if errors.Is(err, auth.ErrNoSession) {
				return errors.New("token expired or invalid: sign in again and update TRIPMETER_TOKEN")
			}
			fmt.Println(cli.RenderWarning("Partial data: " + explainAPIError(err).Error()))
		}
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("ACCOUNT"))
	fmt.Println()

	now := time.Now()
	rows := [][]string{
		{"Name", sess.DisplayName()},
		{"Email", orDash(sess.Email)},
		{"Token", maskToken(sess.Token)},
	}
	switch {
	case sess.Opaque:
		rows = append(rows, []string{"Expires", "unknown (opaque token)"})
	case sess.ExpiresAt.IsZero():
		rows = append(rows, []string{"Expires", "never"})
	case sess.Expired(now):
		rows = append(rows, []string{"Expires", "expired " + sess.ExpiresAt.Local().Format("Jan 02 15:04")})
	default:
		rows = append(rows, []string{"Expires", fmt.Sprintf("in %s", formatCountdown(sess.ExpiresAt.Sub(now)))})
	}
	rows = append(rows, []string{"API", config.GetAPIURL(cfg)})

	fmt.Print(cli.RenderTable(cli.Table{Headers: []string{"Field", "Value"}, Rows: rows}))
	if sess.IsAuthenticated(now) {
		fmt.Println(cli.RenderNote("Signed in"))
	} else {
		fmt.Println(cli.RenderWarning("Token expired"))
	}
	fmt.Println()
	return nil
}

func formatCountdown(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h >= 48 {
		return fmt.Sprintf("%dd", h/24)
	}
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func maskToken(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
