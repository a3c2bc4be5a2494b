package cli

import (
	"fmt"
	"time"

	"botf2/internal/adapter/events/redisstream"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Diplomacy event stream tooling",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Read pending entries from the diplomacy event stream",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := stringFlag(cmd, "redis-url", cfg.Redis.URL)
		if err := requireValue(url, "redis URL (--redis-url or BOTF2_REDIS_URL)"); err != nil {
			return err
		}
		count, _ := cmd.Flags().GetInt64("count")
		consumer, _ := cmd.Flags().GetString("consumer")
		block, _ := cmd.Flags().GetDuration("block")
		ack, _ := cmd.Flags().GetBool("ack")

		rdb, err := redisstream.ConnectRedis(url)
		if err != nil {
			return err
		}
		defer rdb.Close()

		ctx := cmd.Context()
		pub := redisstream.New(rdb, stringFlag(cmd, "stream", cfg.Redis.Stream), cfg.Redis.Group)
		if err := pub.EnsureStream(ctx); err != nil {
			return err
		}
		total, err := pub.Len(ctx)
		if err != nil {
			return err
		}
		msgs, err := pub.Read(ctx, consumer, count, block)
		if err != nil {
			return fmt.Errorf("read stream: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "stream length: %d\n", total)
		if len(msgs) == 0 {
			fmt.Fprintln(out, "  (no new entries)")
			return nil
		}
		ids := make([]string, 0, len(msgs))
		for _, m := range msgs {
			e := m.Event
			fmt.Fprintf(out, "  %s  turn=%d %s %d->%d", m.ID, e.Turn, e.Type, e.Sender, e.Recipient)
			if e.AgreementID != "" {
				fmt.Fprintf(out, " agreement=%s", e.AgreementID)
			}
			fmt.Fprintln(out)
			ids = append(ids, m.ID)
		}
		if ack {
			return pub.Ack(ctx, ids...)
		}
		return nil
	},
}

func init() {
	eventsTailCmd.Flags().String("redis-url", "", "redis URL")
	eventsTailCmd.Flags().String("stream", "", "stream name")
	eventsTailCmd.Flags().String("consumer", "diplomacyctl", "consumer name within the observer group")
	eventsTailCmd.Flags().Int64("count", 20, "maximum entries to read")
	eventsTailCmd.Flags().Duration("block", time.Second, "how long to wait for new entries")
	eventsTailCmd.Flags().Bool("ack", false, "acknowledge the printed entries")
	eventsCmd.AddCommand(eventsTailCmd)
}
