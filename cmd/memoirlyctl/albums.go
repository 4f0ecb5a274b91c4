package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	albumsCmd := &cobra.Command{Use: "albums", Short: "Album operations"}

	// create
	var title, description string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an album",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return fmt.Errorf("--title required")
			}
			payload := map[string]string{"title": title}
			if description != "" {
				payload["description"] = description
			}
			data, err := doPostJSON("/api/albums", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	createCmd.Flags().StringVar(&title, "title", "", "Album title (required)")
	createCmd.Flags().StringVar(&description, "description", "", "Album description")
	_ = createCmd.MarkFlagRequired("title")
	albumsCmd.AddCommand(createCmd)

	// list
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List albums",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/albums", nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	albumsCmd.AddCommand(listCmd)

	// media (members)
	membersCmd := &cobra.Command{
		Use:   "media ALBUM_ID",
		Short: "List an album's memories, most recently attached first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/albums/"+args[0]+"/media", nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	albumsCmd.AddCommand(membersCmd)

	// attach / detach
	attachCmd := &cobra.Command{
		Use:   "attach ALBUM_ID MEDIA_ID",
		Short: "Attach a memory to an album",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := doPostJSON("/api/albums/"+args[0]+"/media/"+args[1], nil); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "attached")
			return nil
		},
	}
	albumsCmd.AddCommand(attachCmd)

	detachCmd := &cobra.Command{
		Use:   "detach ALBUM_ID MEDIA_ID",
		Short: "Detach a memory from an album",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := doDelete("/api/albums/" + args[0] + "/media/" + args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "detached")
			return nil
		},
	}
	albumsCmd.AddCommand(detachCmd)

	// cover
	var coverURL string
	coverCmd := &cobra.Command{
		Use:   "cover ALBUM_ID",
		Short: "Show or set an album's cover",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if coverURL != "" {
				if _, err := doPutJSON("/api/albums/"+args[0]+"/cover", map[string]string{"coverUrl": coverURL}); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(os.Stdout, "cover set")
				return nil
			}
			data, err := doGet("/api/albums/"+args[0]+"/cover", nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	coverCmd.Flags().StringVar(&coverURL, "set", "", "Cover image URL to pin")
	albumsCmd.AddCommand(coverCmd)

	// rotation
	rotateCmd := &cobra.Command{
		Use:   "rotate ALBUM_ID",
		Short: "Restart cover rotation for an album",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON("/api/albums/"+args[0]+"/rotation", nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	albumsCmd.AddCommand(rotateCmd)

	// delete
	deleteCmd := &cobra.Command{
		Use:   "delete ALBUM_ID",
		Short: "Delete an album (member memories survive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := doDelete("/api/albums/" + args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "deleted")
			return nil
		},
	}
	albumsCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(albumsCmd)
}
