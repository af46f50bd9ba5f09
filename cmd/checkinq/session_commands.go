package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"checkinq/internal/checkin"
	"checkinq/internal/manager"
	"checkinq/internal/session"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	var teamID int64
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Start a new check-in session for a team",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("team") {
				return errors.New("--team is required")
			}
			return ctx.withSession(func(sess *session.Session) error {
				existing, err := sess.Restore(cmd.Context(), nil)
				switch {
				case err == nil && !force:
					return fmt.Errorf("a session for team %d with %d pending check-ins already exists (use --force to replace it)",
						existing.TeamID(), existing.PendingCheckinCount())
				case errors.Is(err, checkin.ErrCorruptState) && !force:
					return fmt.Errorf("%w (use --force to replace it)", err)
				case err != nil && !errors.Is(err, checkin.ErrNoSession) && !errors.Is(err, checkin.ErrCorruptState):
					return err
				}

				mgr, err := sess.Create(cmd.Context(), teamID, nil)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Started session for team %d\n", mgr.TeamID())
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&teamID, "team", 0, "Team identifier")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing session, discarding its pending check-ins")
	return cmd
}

func newCheckinCommand(ctx *commandContext) *cobra.Command {
	var placeID int64
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "checkin --place ID [--lat LAT --lon LON] PHOTO",
		Short: "Queue a photo check-in at a place and try to send it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("place") {
				return errors.New("--place is required")
			}
			location, err := locationFlags(cmd, lat, lon)
			if err != nil {
				return err
			}
			place, err := resolvePlace(ctx, placeID)
			if err != nil {
				return err
			}

			raw, closer, err := checkin.OpenRawFile(args[0])
			if err != nil {
				return err
			}
			defer closer.Close()

			return ctx.withManager(cmd.Context(), func(mgr *manager.Manager) error {
				item, err := mgr.QueueCheckin(cmd.Context(), place, location, raw)
				if errors.Is(err, checkin.ErrInvalidInput) {
					return err
				}
				out := cmd.OutOrStdout()
				if item.ClientKey != "" {
					fmt.Fprintf(out, "Queued %s at %s (%s)\n", filepath.Base(args[0]), placeLabel(place), item.ClientKey)
				}
				if err != nil {
					return fmt.Errorf("check-in kept in memory only: %w", err)
				}
				mgr.Wait()
				fmt.Fprintf(out, "Status: %s, %d pending\n",
					statusLabel(mgr.Status(), shouldColorize(out)), mgr.PendingCheckinCount())
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&placeID, "place", 0, "Place identifier")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude where the photo was taken")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude where the photo was taken")
	return cmd
}

// resolvePlace looks placeID up in the catalog when one is configured.
func resolvePlace(ctx *commandContext, placeID int64) (checkin.Place, error) {
	catalog, err := ctx.catalog()
	if err != nil {
		return checkin.Place{}, err
	}
	if catalog == nil {
		return checkin.Place{ID: placeID}, nil
	}
	place, ok := catalog.Find(placeID)
	if !ok {
		return checkin.Place{}, fmt.Errorf("place %d is not in the catalog", placeID)
	}
	return place, nil
}

func placeLabel(place checkin.Place) string {
	if place.Name == "" {
		return fmt.Sprintf("place #%d", place.ID)
	}
	return fmt.Sprintf("%s (#%d)", place.Name, place.ID)
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session's sync status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(cmd.Context(), func(mgr *manager.Manager) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Team:    %d\n", mgr.TeamID())
				fmt.Fprintf(out, "Status:  %s\n", statusLabel(mgr.Status(), shouldColorize(out)))
				fmt.Fprintf(out, "Pending: %d\n", mgr.PendingCheckinCount())
				return nil
			})
		},
	}
}

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Send every pending check-in now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(cmd.Context(), func(mgr *manager.Manager) error {
				out := cmd.OutOrStdout()
				result := mgr.TrySend(cmd.Context())
				if !result.Ran {
					fmt.Fprintln(out, "A sync is already in progress")
					return nil
				}
				if result.Attempted == 0 {
					fmt.Fprintln(out, "Nothing to send")
					return nil
				}
				fmt.Fprintf(out, "Delivered %d, failed %d, %d pending\n", result.Delivered, result.Failed, result.Pending)
				if result.Failed > 0 {
					fmt.Fprintln(out, "Failed check-ins stay queued; run `checkinq sync` again when online")
				}
				return nil
			})
		},
	}
}
