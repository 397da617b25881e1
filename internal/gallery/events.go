package gallery

import (
	"context"
	"fmt"
	"time"

	"github.com/corecanvas/canvas-cli/internal/chain"
	"github.com/corecanvas/canvas-cli/internal/contract"
)

// LogSource reads event logs from the chain. *chain.EVMClient satisfies it.
type LogSource interface {
	Logs(ctx context.Context, q chain.LogQuery) ([]chain.LogEntry, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// BindingResolver resolves logical contract names. *contract.Gateway
// satisfies it.
type BindingResolver interface {
	Resolve(name string) (*contract.Binding, error)
}

// Watcher turns chain logs into a stream of marketplace events by polling
// eth_getLogs.
type Watcher struct {
	source   LogSource
	resolver BindingResolver
	interval time.Duration
}

// NewWatcher creates a watcher polling at the given interval (default 5s).
func NewWatcher(source LogSource, resolver BindingResolver, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Watcher{source: source, resolver: resolver, interval: interval}
}

// Subscription is a live event stream. It stays open until Close is called
// or the watch context ends; either way the Events channel is closed.
type Subscription struct {
	events chan Event
	cancel context.CancelFunc
}

// Events returns the event channel.
func (s *Subscription) Events() <-chan Event { return s.events }

// Close stops the subscription.
func (s *Subscription) Close() { s.cancel() }

// Watch subscribes to one named event of a contract, starting from the
// current head of the chain.
func (w *Watcher) Watch(ctx context.Context, contractName, eventName string) (*Subscription, error) {
	b, err := w.resolver.Resolve(contractName)
	if err != nil {
		return nil, err
	}
	ev, ok := b.ABI.Events[eventName]
	if !ok {
		return nil, fmt.Errorf("contract %q has no event %q", contractName, eventName)
	}

	from, err := w.source.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading chain head: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		events: make(chan Event, 32),
		cancel: cancel,
	}
	go w.poll(ctx, sub, b, contractName, eventName, ev.ID.Hex(), from+1)
	return sub, nil
}

func (w *Watcher) poll(ctx context.Context, sub *Subscription, b *contract.Binding, contractName, eventName, topic string, from uint64) {
	defer close(sub.events)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		head, err := w.source.BlockNumber(ctx)
		if err != nil || head < from {
			continue
		}

		logs, err := w.source.Logs(ctx, chain.LogQuery{
			Address:   b.Address.Hex(),
			Topics:    []string{topic},
			FromBlock: hexBlock(from),
			ToBlock:   hexBlock(head),
		})
		if err != nil {
			continue
		}

		for _, entry := range logs {
			e := Event{
				Contract: contractName,
				Name:     eventName,
				TxHash:   entry.TxHash,
				Topics:   entry.Topics,
				Data:     entry.Data,
			}
			if bn, ok := chain.ParseHexUint(entry.BlockNumber); ok {
				e.BlockNumber = bn
			}
			select {
			case sub.events <- e:
			case <-ctx.Done():
				return
			}
		}
		from = head + 1
	}
}

func hexBlock(n uint64) string {
	return fmt.Sprintf("0x%x", n)
}
