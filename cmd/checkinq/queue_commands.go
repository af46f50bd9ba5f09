package main

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"checkinq/internal/checkin"
	"checkinq/internal/manager"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect pending check-ins",
	}
	queueCmd.AddCommand(newQueueListCommand(ctx))
	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending check-ins in delivery order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(cmd.Context(), func(mgr *manager.Manager) error {
				out := cmd.OutOrStdout()
				items := mgr.Queued()
				if len(items) == 0 {
					fmt.Fprintln(out, "No pending check-ins")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for i, item := range items {
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						item.ClientKey,
						strconv.FormatInt(item.PlaceID, 10),
						formatLocation(item.Location),
						item.Photo.FileName,
						item.Photo.MimeType,
						formatBytes(base64.StdEncoding.DecodedLen(len(item.Photo.Base64Data))),
					})
				}
				fmt.Fprintln(out, renderTable(queueColumns, rows))
				return nil
			})
		},
	}
}

var queueColumns = []column{
	{header: "#", align: alignRight},
	clientKeyColumn,
	{header: "Place", align: alignRight},
	{header: "Location"},
	{header: "Photo"},
	{header: "Type"},
	{header: "Size", align: alignRight},
}

func formatLocation(loc *checkin.Location) string {
	if loc == nil {
		return ""
	}
	return fmt.Sprintf("%.5f, %.5f", loc.Latitude, loc.Longitude)
}

func formatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}
