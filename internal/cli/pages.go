package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/khobor-topics/internal/domain"
	"github.com/Adda-Baaj/khobor-topics/pkg/loaders"
	"github.com/Adda-Baaj/khobor-topics/pkg/publishers"
)

type filterFlags struct {
	publishedAfter  string
	publishedBefore string
	medium          string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.publishedAfter, "published-after", "", "start date YYYY-MM-DD")
	cmd.Flags().StringVar(&f.publishedBefore, "published-before", "", "end date YYYY-MM-DD")
	cmd.Flags().StringVar(&f.medium, "medium", "", "restrict to one medium")
}

// criteria treats empty flags like empty query parameters: absent.
func (f *filterFlags) criteria() domain.FilterCriteria {
	return domain.FilterCriteria{
		Medium:          domain.FromQuery(f.medium),
		PublishedAfter:  domain.FromQuery(f.publishedAfter),
		PublishedBefore: domain.FromQuery(f.publishedBefore),
	}
}

func (a *app) topicCountsCommand() *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "topic-counts",
		Short: "Count articles per topic over a date window (default: last 30 days)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader := loaders.NewTopicCountsLoader(a.backendClient(), a.now)

			page, err := loader.Load(cmd.Context(), filters.criteria())
			if err != nil {
				a.log.ErrorObj("topic counts load failed", "load_error", map[string]any{
					"page":  publishers.PageTopicCounts,
					"error": err.Error(),
				})
				return fmt.Errorf("load topic counts: %w", err)
			}

			if err := a.write(cmd.OutOrStdout(), page); err != nil {
				return err
			}
			return a.relay(cmd, publishers.TopicCountsEvent(page, a.now()))
		},
	}
	filters.bind(cmd)
	return cmd
}

func (a *app) articlesByTopicCommand() *cobra.Command {
	var (
		filters filterFlags
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "articles-by-topic <topic>",
		Short: "List the articles filed under a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := filters.criteria()
			c.Topic = domain.Some(args[0])

			page, err := loaders.NewArticlesByTopicLoader(a.backendClient()).Load(cmd.Context(), c)
			if err != nil {
				a.log.ErrorObj("articles load failed", "load_error", map[string]any{
					"page":  publishers.PageArticlesByTopic,
					"topic": args[0],
					"error": err.Error(),
				})
				return fmt.Errorf("load articles for topic %q: %w", args[0], err)
			}

			if summary {
				err = writeSummary(cmd.OutOrStdout(), page)
			} else {
				err = a.write(cmd.OutOrStdout(), page)
			}
			if err != nil {
				return err
			}
			return a.relay(cmd, publishers.ArticlesEvent(page, a.now()))
		},
	}
	filters.bind(cmd)
	cmd.Flags().BoolVar(&summary, "summary", false, "print one line per article instead of the raw page")
	return cmd
}

func (a *app) write(w io.Writer, page any) error {
	enc := json.NewEncoder(w)
	if a.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(page); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	return nil
}
