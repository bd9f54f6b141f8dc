package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/getmentor/contentbridge/internal/models"
	"github.com/getmentor/contentbridge/pkg/directus"
	"github.com/spf13/cobra"
)

func newItemsCommand(svc func() *Services) *cobra.Command {
	var fields, sort, filter, search string
	var limit, offset, page int

	cmd := &cobra.Command{
		Use:   "items <collection>",
		Short: "List items of a collection with its default filters applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := directus.Query{
				Fields: splitList(fields),
				Sort:   splitList(sort),
				Limit:  limit,
				Offset: offset,
				Page:   page,
				Search: search,
			}
			if filter != "" {
				if err := json.Unmarshal([]byte(filter), &q.Filter); err != nil {
					return fmt.Errorf("--filter must be a JSON object: %w", err)
				}
			}

			items, err := svc().Content.ListItems(cmd.Context(), args[0], q)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().StringVar(&fields, "fields", "", "comma separated fields")
	cmd.Flags().StringVar(&sort, "sort", "", "comma separated sort fields, prefix with - for descending")
	cmd.Flags().StringVar(&filter, "filter", "", `filter as JSON, e.g. {"featured":{"_eq":true}}`)
	cmd.Flags().StringVar(&search, "search", "", "full text search")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum items, -1 for all (default from DIRECTUS_DEFAULT_LIMIT)")
	cmd.Flags().IntVar(&offset, "offset", 0, "items to skip")
	cmd.Flags().IntVar(&page, "page", 0, "page number")
	return cmd
}

func newItemCommand(svc func() *Services) *cobra.Command {
	var fields string

	cmd := &cobra.Command{
		Use:   "item <collection> <id>",
		Short: "Read a single item by primary key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := svc().Content.GetItem(cmd.Context(), args[0], args[1], directus.Query{Fields: splitList(fields)})
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("%s/%s not found", args[0], args[1])
			}
			return printJSON(cmd.OutOrStdout(), item)
		},
	}

	cmd.Flags().StringVar(&fields, "fields", "", "comma separated fields")
	return cmd
}

func newPathsCommand(svc func() *Services) *cobra.Command {
	var field string

	cmd := &cobra.Command{
		Use:   "paths <collection>",
		Short: "List static route parameters of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := svc().Content.StaticPaths(cmd.Context(), args[0], field)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), paths)
		},
	}

	cmd.Flags().StringVar(&field, "field", "slug", "field used as the route parameter")
	return cmd
}

func newAssetCommand(svc func() *Services) *cobra.Command {
	var t directus.Transform

	cmd := &cobra.Command{
		Use:   "asset <id>",
		Short: "Print a transformed asset URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), models.AssetURLResponse{URL: svc().Content.AssetURL(args[0], t)})
		},
	}

	cmd.Flags().IntVar(&t.Width, "width", 0, "width in pixels")
	cmd.Flags().IntVar(&t.Height, "height", 0, "height in pixels")
	cmd.Flags().IntVar(&t.Quality, "quality", 0, "quality 1-100 (default 85)")
	cmd.Flags().StringVar(&t.Format, "format", "", "output format (default webp)")
	cmd.Flags().StringVar(&t.Fit, "fit", "", "cover, contain, inside or outside")
	return cmd
}

func newSrcSetCommand(svc func() *Services) *cobra.Command {
	var widths string

	cmd := &cobra.Command{
		Use:   "srcset <id>",
		Short: "Print src, srcset and sizes for a responsive image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseWidths(widths)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), svc().Content.ResponsiveImages(args[0], parsed))
		},
	}

	cmd.Flags().StringVar(&widths, "widths", "", "comma separated widths (default 320,640,1024,1920)")
	return cmd
}

func newRevalidateCommand(svc func() *Services) *cobra.Command {
	var action, key, data string

	cmd := &cobra.Command{
		Use:   "revalidate <collection>",
		Short: "Revalidate the site paths and tags mapped to a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			event := &models.WebhookEvent{Collection: args[0], Action: action, Key: key}
			if data != "" {
				if err := json.Unmarshal([]byte(data), &event.Data); err != nil {
					return fmt.Errorf("--data must be a JSON object: %w", err)
				}
			}

			resp, err := svc().Revalidation.Dispatch(cmd.Context(), event)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			if n := len(resp.FailedPaths) + len(resp.FailedTags); n > 0 {
				return fmt.Errorf("%d revalidation calls failed", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&action, "action", models.ActionUpdate, "create, update or delete")
	cmd.Flags().StringVar(&key, "key", "", "item key")
	cmd.Flags().StringVar(&data, "data", "", `item payload as JSON, e.g. {"slug":"my-post"}`)
	return cmd
}

func newRebuildCommand(svc func() *Services) *cobra.Command {
	var title, collection, action, key string

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Trigger a full site build",
		Long:  "Without --collection a build is started unconditionally. With --collection the webhook allow-list applies.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp *models.RebuildResponse
			var err error
			if collection == "" {
				resp, err = svc().Rebuild.TriggerManual(cmd.Context(), title)
			} else {
				resp, err = svc().Rebuild.Trigger(cmd.Context(), &models.WebhookEvent{
					Collection: collection,
					Action:     action,
					Key:        key,
				})
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", `build title (default "Content Update")`)
	cmd.Flags().StringVar(&collection, "collection", "", "collection that changed")
	cmd.Flags().StringVar(&action, "action", models.ActionUpdate, "create, update or delete")
	cmd.Flags().StringVar(&key, "key", "", "item key")
	return cmd
}

func parseWidths(raw string) ([]int, error) {
	var widths []int
	for _, part := range splitList(raw) {
		w, err := strconv.Atoi(part)
		if err != nil || w <= 0 {
			return nil, fmt.Errorf("invalid width %q", part)
		}
		widths = append(widths, w)
	}
	return widths, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
