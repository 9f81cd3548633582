package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripmeter/internal/cli"
	"github.com/theirongolddev/tripmeter/internal/travelapi"
)

var videosCmd = &cobra.Command{
	Use:   "videos [query...]",
	Short: "Find video tours (default: the active trip's destination)",
	RunE:  runVideos,
}

var videosLimit int

func init() {
	videosCmd.Flags().IntVarP(&videosLimit, "limit", "l", 8, "Number of videos to show")
	rootCmd.AddCommand(videosCmd)
}

func runVideos(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		st, closeStore := openStore()
		trip, err := selectTrip(st)
		closeStore()
		if err != nil {
			if errors.Is(err, errNoTrips) {
				return errors.New("give a search query or plan a trip first")
			}
			return err
		}
		query = travelapi.VideoQuery(trip.Destination)
	}

	ctx, cancel := commandContext()
	defer cancel()
	videos, err := client.Videos(ctx, query)
	if err != nil {
		return explainAPIError(err)
	}
	if len(videos) == 0 {
		fmt.Printf("\n  No videos found for %q.\n", query)
		return nil
	}
	if videosLimit > 0 && len(videos) > videosLimit {
		videos = videos[:videosLimit]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("VIDEO TOURS  %s", query)))
	fmt.Println()
	rows := make([][]string, 0, len(videos))
	for _, v := range videos {
		rows = append(rows, []string{
			cli.Truncate(v.Title, 40),
			cli.Truncate(v.Channel, 18),
			v.URL(),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{Headers: []string{"Title", "Channel", "Link"}, Rows: rows}))
	return nil
}
