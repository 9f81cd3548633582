package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripmeter/internal/cli"
	"github.com/theirongolddev/tripmeter/internal/model"
	"github.com/theirongolddev/tripmeter/internal/travelapi"
)

var chatCmd = &cobra.Command{
	Use:   "chat <message...>",
	Short: "Ask the travel assistant a question about the active trip",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runChat,
}

var chatGeneral bool

func init() {
	chatCmd.Flags().BoolVar(&chatGeneral, "general", false, "Ask without trip context")
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	var trip *model.Trip
	if !chatGeneral {
		st, closeStore := openStore()
		t, err := selectTrip(st)
		closeStore()
		switch {
		case err == nil:
			trip = &t
		case !errors.Is(err, errNoTrips):
			return err
		}
	}

	ctx, cancel := commandContext()
	defer cancel()
	reply, err := client.Chat(ctx, strings.Join(args, " "), travelapi.ChatContext(trip))
	if err != nil {
		return explainAPIError(err)
	}

	fmt.Println()
	if trip != nil {
		fmt.Println(cli.RenderNote("About your trip to " + trip.Destination))
	}
	fmt.Println(indent(reply))
	fmt.Println()
	return nil
}

func indent(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
