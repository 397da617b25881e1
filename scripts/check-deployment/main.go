// check-deployment: verifies the recorded contract deployment against the
// chain. For every chain in the registry it pings the first RPC endpoint, and
// on the configured marketplace network it checks that each checkpointed
// contract address actually holds bytecode.
//
// Run from the module root:
//
//	go run ./scripts/check-deployment
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/corecanvas/canvas-cli/internal/chain"
	"github.com/corecanvas/canvas-cli/internal/config"
)

const rpcTimeout = 12 * time.Second

type result struct {
	chain    string
	contract string
	address  string // short form
	status   string
	note     string
}

func main() {
	dir := os.Getenv("CANVAS_CONFIG_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot determine home dir:", err)
			os.Exit(1)
		}
		dir = filepath.Join(home, ".canvas")
	}

	cfg, err := config.Load(dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading config:", err)
		os.Exit(1)
	}
	cp, err := cfg.LoadCheckpoint()
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading checkpoint:", err)
		os.Exit(1)
	}

	reg := chain.NewRegistry()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []result
	)

	// Ping every registry chain in parallel.
	for _, c := range reg.All() {
		wg.Add(1)
		go func(c chain.Chain) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
			defer cancel()

			client := chain.NewEVMClient(c.RPCs[0])
			latency, block, err := client.Ping(ctx)

			r := result{chain: c.Name, contract: "—", address: "—"}
			if err != nil {
				r.status = "unreachable"
				r.note = shortErr(err)
			} else {
				r.status = "ok"
				r.note = fmt.Sprintf("block %d, %dms", block, latency.Milliseconds())
			}

			mu.Lock()
			results = append(results, r)
			mu.Unlock()
		}(c)
	}

	// Check each checkpointed contract on the marketplace network.
	if target, err := reg.GetByName(cfg.Network); err == nil {
		client := chain.NewEVMClient(target.RPCs[0])
		for _, name := range cp.Names() {
			wg.Add(1)
			go func(name, address string) {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
				defer cancel()

				r := result{chain: target.Name, contract: name, address: shortAddr(address)}
				code, err := client.Code(ctx, address)
				switch {
				case err != nil:
					r.status = "error"
					r.note = shortErr(err)
				case code == "" || code == "0x":
					r.status = "missing"
					r.note = "no bytecode at address"
				default:
					r.status = "deployed"
					r.note = fmt.Sprintf("%d bytes", (len(code)-2)/2)
				}

				mu.Lock()
				results = append(results, r)
				mu.Unlock()
			}(name, cp.Address(name))
		}
	}

	wg.Wait()
	printTable(results)
}

func printTable(results []result) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.chain != b.chain {
			return a.chain < b.chain
		}
		return a.contract < b.contract
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHAIN\tCONTRACT\tADDRESS\tSTATUS\tNOTE")
	fmt.Fprintln(w, strings.Repeat("-", 12)+"\t"+
		strings.Repeat("-", 14)+"\t"+
		strings.Repeat("-", 14)+"\t"+
		strings.Repeat("-", 11)+"\t"+
		strings.Repeat("-", 20))
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.chain, r.contract, r.address, r.status, r.note)
	}
	w.Flush()
}

func shortAddr(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

func shortErr(err error) string {
	s := err.Error()
	if len(s) > 30 {
		return s[:30] + "…"
	}
	return s
}
