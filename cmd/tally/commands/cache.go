package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
	"go.trai.ch/tally/internal/app"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the local cache",
	}
	cmd.AddCommand(c.newCacheStatsCmd())
	cmd.AddCommand(c.newCacheClearCmd())
	cmd.AddCommand(c.newCacheInvalidateCmd())
	return cmd
}

func (c *CLI) newCacheStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show what the cache holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.CacheStats(cmd.Context(), options(cmd))
			if err != nil {
				return err
			}
			keys, _ := cmd.Flags().GetBool("keys")
			writeStats(cmd.OutOrStdout(), report, keys)
			return nil
		},
	}
	cmd.Flags().BoolP("keys", "k", false, "List every cached key")
	return cmd
}

func writeStats(w io.Writer, report app.CacheReport, keys bool) {
	stats := report.Stats
	_, _ = fmt.Fprintf(w, "location: %s\n", report.Location)
	_, _ = fmt.Fprintf(w, "entries:  %d\n", stats.Entries)
	_, _ = fmt.Fprintf(w, "size:     %s\n", humanize.Bytes(uint64(stats.ApproxBytes))) //nolint:gosec // sizes are never negative
	_, _ = fmt.Fprintf(w, "ttl:      %s\n", report.TTL)
	if !stats.Oldest.IsZero() {
		_, _ = fmt.Fprintf(w, "oldest:   %s\n", humanize.Time(stats.Oldest))
	}
	if keys {
		for _, key := range stats.Keys {
			_, _ = fmt.Fprintf(w, "  %s\n", key)
		}
	}
}

func (c *CLI) newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.ClearCache(cmd.Context(), options(cmd))
		},
	}
}

func (c *CLI) newCacheInvalidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Drop part of the cache",
		Long: "Drop the cached pages and cursor chains of a scope, every key starting with a prefix, " +
			"or a single key. Exactly one of --scope, --prefix and --key is required.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scope, _ := cmd.Flags().GetString("scope")
			prefix, _ := cmd.Flags().GetString("prefix")
			key, _ := cmd.Flags().GetString("key")

			res, err := c.app.Invalidate(cmd.Context(), app.InvalidateOptions{
				Options: options(cmd),
				Scope:   scope,
				Prefix:  prefix,
				Key:     key,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %d %s, %d %s\n",
				res.Keys, english.PluralWord(res.Keys, "entry", "entries"),
				res.Chains, english.PluralWord(res.Chains, "cursor chain", ""))
			return nil
		},
	}
	cmd.Flags().String("scope", "", "Entity scope to drop, e.g. events")
	cmd.Flags().String("prefix", "", "Drop every key starting with this prefix")
	cmd.Flags().String("key", "", "Drop this key")
	cmd.MarkFlagsMutuallyExclusive("scope", "prefix", "key")
	cmd.MarkFlagsOneRequired("scope", "prefix", "key")
	return cmd
}
