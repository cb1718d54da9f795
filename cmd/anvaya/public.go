package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/anvaya-club/anvaya/internal/client"
)

func (a *app) wingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wings",
		Short: "List all wings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wings, err := a.api.GetAllWings(cmd.Context())
			if err != nil {
				return apiError(err)
			}
			return a.print(wings)
		},
	}
}

func (a *app) wingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wing <slug>",
		Short: "Show a wing with its activities and photos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wing, err := a.api.GetWingBySlug(cmd.Context(), args[0])
			if err != nil {
				return apiError(err)
			}
			return a.print(wing)
		},
	}
}

func (a *app) photosCmd() *cobra.Command {
	var page client.PhotoPage
	cmd := &cobra.Command{
		Use:   "photos <slug>",
		Short: "List a wing's photos, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			photos, err := a.api.GetWingPhotos(cmd.Context(), args[0], page)
			if err != nil {
				return apiError(err)
			}
			return a.print(photos)
		},
	}
	cmd.Flags().IntVar(&page.Limit, "limit", 100, "photos per page (1-500)")
	cmd.Flags().IntVar(&page.Offset, "offset", 0, "photos to skip")
	return cmd
}

func (a *app) activitiesCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "activities [slug]",
		Short: "List activities of one wing, or of all wings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				activities, err := a.api.GetWingActivities(cmd.Context(), args[0])
				if err != nil {
					return apiError(err)
				}
				return a.print(activities)
			}
			activities, err := a.api.GetAllActivities(cmd.Context(), limit)
			if err != nil {
				return apiError(err)
			}
			return a.print(activities)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 1000, "maximum activities across all wings (1-5000)")
	return cmd
}

func (a *app) activityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activity <id>",
		Short: "Show one activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			activity, err := a.api.GetActivity(cmd.Context(), id)
			if err != nil {
				return apiError(err)
			}
			return a.print(activity)
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	var q client.StatisticsQuery
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Activity counts per wing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.api.GetActivityStatistics(cmd.Context(), q)
			if err != nil {
				return apiError(err)
			}
			return a.print(stats)
		},
	}
	cmd.Flags().IntVar(&q.Year, "year", 0, "count only this year (default all years)")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
