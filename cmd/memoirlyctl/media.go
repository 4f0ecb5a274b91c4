package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	mediaCmd := &cobra.Command{Use: "media", Short: "Media operations"}

	// create
	var url, mediaType, title, note, emotion, location, tags string
	var public bool
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Record a memory for a hosted asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				return fmt.Errorf("--url required")
			}
			payload := map[string]interface{}{"url": url}
			if mediaType != "" {
				payload["type"] = mediaType
			}
			if title != "" {
				payload["title"] = title
			}
			if note != "" {
				payload["note"] = note
			}
			if emotion != "" {
				payload["emotion"] = emotion
			}
			if location != "" {
				payload["location"] = location
			}
			if tags != "" {
				payload["tags"] = strings.Split(tags, ",")
			}
			if public {
				payload["isPublic"] = true
			}
			data, err := doPostJSON("/api/media", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	createCmd.Flags().StringVarP(&url, "url", "u", "", "Asset URL (required)")
	createCmd.Flags().StringVar(&mediaType, "type", "", "Media type (image or video)")
	createCmd.Flags().StringVar(&title, "title", "", "Title")
	createCmd.Flags().StringVar(&note, "note", "", "Note text")
	createCmd.Flags().StringVar(&emotion, "emotion", "", "Emotion label")
	createCmd.Flags().StringVar(&location, "location", "", "Location")
	createCmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	createCmd.Flags().BoolVar(&public, "public", false, "Make the memory publicly shareable")
	_ = createCmd.MarkFlagRequired("url")
	mediaCmd.AddCommand(createCmd)

	// list
	var q, listEmotion, listTags, from, to, listType, privacy string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List memories with optional dashboard filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{}
			for k, v := range map[string]string{
				"q": q, "emotion": listEmotion, "tags": listTags,
				"from": from, "to": to, "type": listType, "privacy": privacy,
			} {
				if v != "" {
					query[k] = v
				}
			}
			data, err := doGet("/api/media", query)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	listCmd.Flags().StringVarP(&q, "query", "q", "", "Search text")
	listCmd.Flags().StringVar(&listEmotion, "emotion", "", "Exact emotion")
	listCmd.Flags().StringVar(&listTags, "tags", "", "Comma-separated tags, match any")
	listCmd.Flags().StringVar(&from, "from", "", "Start date YYYY-MM-DD")
	listCmd.Flags().StringVar(&to, "to", "", "End date YYYY-MM-DD")
	listCmd.Flags().StringVar(&listType, "type", "", "image, video or all")
	listCmd.Flags().StringVar(&privacy, "privacy", "", "all, public or private")
	mediaCmd.AddCommand(listCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get MEDIA_ID",
		Short: "Get a memory by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/media/"+args[0], nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	mediaCmd.AddCommand(getCmd)

	// delete
	deleteCmd := &cobra.Command{
		Use:   "delete MEDIA_ID",
		Short: "Delete a memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := doDelete("/api/media/" + args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "deleted")
			return nil
		},
	}
	mediaCmd.AddCommand(deleteCmd)

	// favourite
	favCmd := &cobra.Command{
		Use:   "favourite MEDIA_ID",
		Short: "Toggle a memory's favourite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON("/api/media/"+args[0]+"/favourite", nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	mediaCmd.AddCommand(favCmd)

	// visibility
	var makePublic bool
	visCmd := &cobra.Command{
		Use:   "visibility MEDIA_ID",
		Short: "Set a memory's public visibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPutJSON("/api/media/"+args[0]+"/visibility", map[string]bool{"isPublic": makePublic})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	visCmd.Flags().BoolVar(&makePublic, "public", false, "Public when set, private otherwise")
	mediaCmd.AddCommand(visCmd)

	// suggest-tags
	suggestCmd := &cobra.Command{
		Use:   "suggest-tags MEDIA_ID",
		Short: "Ask the classifier for tag suggestions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON("/api/media/"+args[0]+"/suggest-tags", nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	mediaCmd.AddCommand(suggestCmd)

	rootCmd.AddCommand(mediaCmd)
}
