package gallery

import (
	"context"
	"math/big"

	"github.com/corecanvas/canvas-cli/internal/chain"
	"github.com/ethereum/go-ethereum/common"
)

// Gateway is the slice of the contract gateway the adapters use.
// *contract.Gateway satisfies it.
type Gateway interface {
	Read(ctx context.Context, name, method string, out interface{}, args ...interface{}) error
	Write(ctx context.Context, name, method string, value *big.Int, args ...interface{}) (*chain.TxReceipt, error)
	EventID(name, event string) (common.Hash, error)
	Account() string
}
