package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"checkinq/internal/places"
)

func newPlacesCommand(ctx *commandContext) *cobra.Command {
	placesCmd := &cobra.Command{
		Use:   "places",
		Short: "Browse the place catalog",
	}
	placesCmd.AddCommand(newPlacesSuggestCommand(ctx))
	return placesCmd
}

func newPlacesSuggestCommand(ctx *commandContext) *cobra.Command {
	var lat, lon float64
	var count int

	cmd := &cobra.Command{
		Use:   "suggest [--lat LAT --lon LON]",
		Short: "Suggest places, nearest first when a location is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			location, err := locationFlags(cmd, lat, lon)
			if err != nil {
				return err
			}
			catalog, err := ctx.catalog()
			if err != nil {
				return err
			}
			if catalog == nil {
				return errors.New("no place catalog configured; set places.catalog_path")
			}
			if !cmd.Flags().Changed("count") {
				cfg, _ := ctx.ensureConfig()
				count = cfg.Places.SuggestionCount
			}

			out := cmd.OutOrStdout()
			groups := catalog.GroupedSuggestions(location, count)
			if len(groups) == 0 {
				fmt.Fprintln(out, "The place catalog is empty")
				return nil
			}
			for i, group := range groups {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, group.Name)
				rows := make([][]string, 0, len(group.Places))
				for _, p := range group.Places {
					var distance string
					if location != nil && p.Location != nil {
						distance = formatDistance(places.Distance(*location, *p.Location))
					}
					rows = append(rows, []string{
						strconv.FormatInt(p.ID, 10),
						p.Name,
						humanize(p.Category.Name),
						distance,
					})
				}
				fmt.Fprintln(out, renderTable(placeColumns, rows))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Current latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Current longitude")
	cmd.Flags().IntVar(&count, "count", 0, "Number of nearest places to list")
	return cmd
}

var placeColumns = []column{
	{header: "ID", align: alignRight},
	placeNameColumn,
	{header: "Category"},
	{header: "Distance", align: alignRight},
}

func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}
