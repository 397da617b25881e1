package cmd

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/corecanvas/canvas-cli/internal/chain"
	"github.com/corecanvas/canvas-cli/internal/contract"
	"github.com/corecanvas/canvas-cli/internal/gallery"
	"github.com/corecanvas/canvas-cli/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/sha3"
)

// eventContracts maps each marketplace event to the contract that emits it,
// so `canvas events watch ArtworkSold` needs no contract argument.
var eventContracts = map[string]string{
	"ProfileCreated":     contract.ArtistProfile,
	"ProfileUpdated":     contract.ArtistProfile,
	"Followed":           contract.ArtistProfile,
	"Unfollowed":         contract.ArtistProfile,
	"ProfileVerified":    contract.ArtistProfile,
	"ArtworkCreated":     contract.Artwork,
	"ArtworkTransferred": contract.Artwork,
	"ArtworkListed":      contract.Marketplace,
	"ArtworkSold":        contract.Marketplace,
	"BidPlaced":          contract.Marketplace,
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Watch and query marketplace activity",
}

var eventsWatchCmd = &cobra.Command{
	Use:   "watch <event>",
	Short: "Stream a marketplace event live (ctrl-c to stop)",
	Long: `Stream a marketplace event live until interrupted.

Known events: ProfileCreated, ProfileUpdated, Followed, Unfollowed,
ProfileVerified, ArtworkCreated, ArtworkTransferred, ArtworkListed,
ArtworkSold, BidPlaced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventName := args[0]
		contractName, ok := eventContracts[eventName]
		if !ok {
			return fmt.Errorf("unknown event %q", eventName)
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if _, err := a.restoreSession(cmd.Context()); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		watcher := gallery.NewWatcher(a.client, a.gateway, 5*time.Second)
		sub, err := watcher.Watch(ctx, contractName, eventName)
		if err != nil {
			return err
		}
		defer sub.Close()

		fmt.Println(ui.Meta(fmt.Sprintf("Watching %s on %s… (ctrl-c to stop)", eventName, a.chain.DisplayName)))
		for e := range sub.Events() {
			fmt.Printf("%s %s %s %s\n",
				ui.Accent(e.Name),
				ui.Meta(fmt.Sprintf("block %d", e.BlockNumber)),
				ui.Addr(e.TxHash),
				ui.Meta(a.chain.TxURL(e.TxHash)))
		}
		return nil
	},
}

var (
	eventsSignature string
	eventsFrom      string
	eventsCount     int
)

var eventsHistoryCmd = &cobra.Command{
	Use:   "history <event>",
	Short: "Show past emissions of a marketplace event",
	Long: `Fetch past emissions of a marketplace event.

By default queries the last 1000 blocks. Use --from to start earlier.
Pass --signature to filter by a raw event signature instead of a known
event name, e.g. --signature "Transfer(address,address,uint256)" on the
artwork contract.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventName := args[0]
		contractName, ok := eventContracts[eventName]
		if !ok {
			return fmt.Errorf("unknown event %q", eventName)
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if _, err := a.restoreSession(cmd.Context()); err != nil {
			return err
		}

		b, err := a.gateway.Resolve(contractName)
		if err != nil {
			return err
		}

		topic := ""
		if eventsSignature != "" {
			topic = eventTopic(eventsSignature)
		} else {
			id, err := a.gateway.EventID(contractName, eventName)
			if err != nil {
				return err
			}
			topic = id.Hex()
		}

		fromBlock := normalizeBlockParam(eventsFrom)
		if fromBlock == "" {
			latest, err := a.client.BlockNumber(cmd.Context())
			if err != nil {
				return fmt.Errorf("reading chain head: %w", err)
			}
			start := uint64(0)
			if latest > 1000 {
				start = latest - 1000
			}
			fromBlock = fmt.Sprintf("0x%x", start)
		}

		sp := ui.NewSpinner(fmt.Sprintf("Fetching %s events…", eventName))
		sp.Start()
		logs, err := a.client.Logs(cmd.Context(), chain.LogQuery{
			Address:   b.Address.Hex(),
			Topics:    []string{topic},
			FromBlock: fromBlock,
			ToBlock:   "latest",
		})
		sp.Stop()
		if err != nil {
			return fmt.Errorf("querying events: %w", err)
		}

		if len(logs) == 0 {
			fmt.Println(ui.Meta(fmt.Sprintf("No %s events since block %s", eventName, fromBlock)))
			return nil
		}
		if eventsCount > 0 && len(logs) > eventsCount {
			logs = logs[len(logs)-eventsCount:]
		}

		for i, entry := range logs {
			blockNum := ""
			if bn, ok := chain.ParseHexUint(entry.BlockNumber); ok {
				blockNum = fmt.Sprintf("%d", bn)
			}
			pairs := [][2]string{
				{"Event", ui.Val(eventName)},
				{"Block", blockNum},
				{"Tx", ui.Addr(entry.TxHash)},
			}
			for j := 1; j < len(entry.Topics); j++ {
				pairs = append(pairs, [2]string{fmt.Sprintf("Topic[%d]", j), decodeTopic(entry.Topics[j])})
			}
			fmt.Println(ui.KeyValueBlock(fmt.Sprintf("Event #%d", i+1), pairs))
		}
		return nil
	},
}

// eventTopic hashes a raw event signature into its log topic.
func eventTopic(sig string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// decodeTopic unwraps an indexed address topic (12 leading zero bytes) for
// display; anything else is shown raw.
func decodeTopic(topic string) string {
	clean := strings.TrimPrefix(topic, "0x")
	if len(clean) == 64 && strings.HasPrefix(clean, strings.Repeat("0", 24)) {
		addr := clean[24:]
		if strings.Trim(addr, "0") != "" {
			return ui.Addr("0x" + addr)
		}
	}
	return topic
}

// normalizeBlockParam converts a block flag to an RPC-compatible value.
// Accepts hex ("0x1a"), decimal ("100"), named tags ("latest"), or empty.
func normalizeBlockParam(s string) string {
	if s == "" || s == "latest" || s == "earliest" || s == "pending" || strings.HasPrefix(s, "0x") {
		return s
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return s // pass through, RPC will reject if invalid
	}
	return fmt.Sprintf("0x%x", n)
}

func init() {
	eventsHistoryCmd.Flags().StringVar(&eventsSignature, "signature", "", "raw event signature to filter by instead of the named event")
	eventsHistoryCmd.Flags().StringVar(&eventsFrom, "from", "", "start block (hex or decimal, default: latest-1000)")
	eventsHistoryCmd.Flags().IntVar(&eventsCount, "count", 10, "max events to display")
	eventsCmd.AddCommand(eventsWatchCmd, eventsHistoryCmd)
}
