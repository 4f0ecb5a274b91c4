package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	var granularity string
	timelineCmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show memories bucketed by date, newest bucket first",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{}
			if granularity != "" {
				query["granularity"] = granularity
			}
			data, err := doGet("/api/timeline", query)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	timelineCmd.Flags().StringVarP(&granularity, "granularity", "g", "day", "Bucket size: day or month")
	rootCmd.AddCommand(timelineCmd)
}
